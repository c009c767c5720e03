package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-prep/internal/config"
	"github.com/jonathan/interview-prep/internal/server"
)

// execute runs the root command in-process with fresh flag values.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestFilterCommand(t *testing.T) {
	raw := "As an AI language model, I'd ask this. Can you explain how a hash map handles collisions?"

	out, err := execute(t, raw, "filter", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "Can you explain how a hash map handles collisions?")
	assert.NotContains(t, out, "AI language model")
	assert.Contains(t, out, "Feel free to elaborate", "follow-up note is appended")

	out, err = execute(t, raw, "filter")
	require.NoError(t, err)
	assert.Contains(t, out, "FILTERED RESPONSE")
	assert.Contains(t, out, "✓follow-up")
}

func TestFilterCommand_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reply.txt")
	require.NoError(t, os.WriteFile(path, []byte("Interviewer: Write code that reverses a linked list."), 0644))

	out, err := execute(t, "", "filter", "--in", path, "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "**code**")
	assert.NotContains(t, out, "Interviewer:")

	_, err = execute(t, "", "filter", "--in", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorContains(t, err, "failed to open input file")
}

func TestPromptCommand(t *testing.T) {
	out, err := execute(t, "", "prompt", "--title", "Platform Engineer", "--technology", "Kubernetes")
	require.NoError(t, err)
	assert.Contains(t, out, `"Platform Engineer"`)
	assert.Contains(t, out, "Greet the candidate")

	out, err = execute(t, "", "prompt",
		"--phase", "technical",
		"--message", "My name is Lee and I have 4 years of experience.",
		"--asked", "What is a pod?")
	require.NoError(t, err)
	assert.Contains(t, out, "what is a pod?")
	assert.Contains(t, out, "Lee")
	assert.NotContains(t, out, "Greet the candidate")

	_, err = execute(t, "", "prompt", "--phase", "lunch")
	assert.ErrorContains(t, err, `unknown phase "lunch"`)
}

func TestDevTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "dev-secret-for-tests")

	out, err := execute(t, "", "dev-token", "--user", "user-42", "--ttl", "5m")
	require.NoError(t, err)

	cfg, err := config.NewJWTConfig()
	require.NoError(t, err)
	claims, err := server.NewJWTService(cfg).ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.GetUserID())
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestRequiredFlags(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"dev-token"}, `required flag(s) "user" not set`},
		{[]string{"import-questions", "--url", "https://example.com"}, `required flag(s) "company" not set`},
		{[]string{"import-questions", "--company", "Acme"}, "at least one of the flags in the group [url urls-file] is required"},
		{[]string{"critique"}, "at least one of the flags in the group [file url] is required"},
		{[]string{"critique", "--file", "a.txt", "--url", "https://example.com"}, "were all set"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestDatabaseCommands_RequireURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	for _, args := range [][]string{
		{"prune-pages"},
		{"import-questions", "--company", "Acme", "--url", "https://example.com/experience"},
	} {
		_, err := execute(t, "", args...)
		assert.ErrorContains(t, err, "DATABASE_URL", args[0])
	}
}

func TestReadURLs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(path, []byte("# acme posts\nhttps://a.example/1\n\n  https://a.example/2  \n"), 0644))

	urls, err := readURLs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example/1", "https://a.example/2"}, urls)
}
