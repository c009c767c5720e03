package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-prep/internal/config"
	"github.com/jonathan/interview-prep/internal/server"
)

var (
	devTokenUser string
	devTokenTTL  time.Duration
)

var devTokenCmd = &cobra.Command{
	Use:   "dev-token",
	Short: "Sign a bearer token for local development",
	Long:  "Signs an HS256 token with JWT_SECRET so the API can be exercised without the hosted auth service.",
	RunE:  runDevToken,
}

func init() {
	devTokenCmd.Flags().StringVarP(&devTokenUser, "user", "u", "", "User id to put in the token (required)")
	devTokenCmd.Flags().DurationVar(&devTokenTTL, "ttl", 24*time.Hour, "Token lifetime")
	if err := devTokenCmd.MarkFlagRequired("user"); err != nil {
		panic(fmt.Sprintf("failed to mark user flag as required: %v", err))
	}
	rootCmd.AddCommand(devTokenCmd)
}

func runDevToken(cmd *cobra.Command, _ []string) error {
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	token, err := server.NewJWTService(jwtConfig).GenerateToken(devTokenUser, devTokenTTL)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
