package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	// Create test server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-valid-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.NotNil(t, result) // Result is returned even on error
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "404")
}

func TestExtractMainText_WithMainElement(t *testing.T) {
	html := `
	<html>
		<body>
			<nav>Navigation</nav>
			<main>
				<h1>Main Content</h1>
				<p>This is the important text.</p>
			</main>
			<footer>Footer</footer>
		</body>
	</html>`

	text, err := ExtractMainText(html, DefaultTextSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Main Content")
	assert.Contains(t, text, "important text")
	assert.NotContains(t, text, "Navigation")
	assert.NotContains(t, text, "Footer")
}

func TestExtractMainText_WithArticleElement(t *testing.T) {
	html := `
	<html>
		<body>
			<article>
				<h1>Article Title</h1>
				<p>Article body.</p>
			</article>
		</body>
	</html>`

	text, err := ExtractMainText(html, DefaultTextSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Article Title")
	assert.Contains(t, text, "Article body")
}

func TestExtractMainText_FallbackToBody(t *testing.T) {
	html := `
	<html>
		<body>
			<div>Some content here.</div>
		</body>
	</html>`

	text, err := ExtractMainText(html, DefaultTextSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Some content here")
}

func TestExtractMainText_InterviewExperienceSelectors(t *testing.T) {
	html := `
	<html>
		<body>
			<div class="sidebar">Sidebar junk</div>
			<div class="post-content">
				<h2>Onsite round 2</h2>
				<p>They asked how I would design a URL shortener.</p>
			</div>
		</body>
	</html>`

	text, err := ExtractMainText(html, InterviewExperienceSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Onsite round 2")
	assert.Contains(t, text, "URL shortener")
	assert.NotContains(t, text, "Sidebar junk")
}

func TestExtractMainText_NoiseSelectors(t *testing.T) {
	html := `<html><body><main><p>Keep this</p><div class="comments">Drop this</div></main></body></html>`

	text, err := ExtractMainText(html, DefaultTextSelectors(), ".comments")
	require.NoError(t, err)
	assert.Contains(t, text, "Keep this")
	assert.NotContains(t, text, "Drop this")
}

func TestDefaultTextSelectors(t *testing.T) {
	selectors := DefaultTextSelectors()
	assert.Contains(t, selectors, "main")
	assert.Contains(t, selectors, "article")
}

func TestResumePageSelectors(t *testing.T) {
	selectors := ResumePageSelectors()
	assert.Equal(t, "#resume", selectors[0])
	assert.Contains(t, selectors, "main")
}

func TestURL_ServerErrorIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := URL(context.Background(), server.URL, nil)
	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.True(t, fetchErr.Retryable)
	assert.Equal(t, http.StatusBadGateway, fetchErr.StatusCode)
}

func TestURL_SendsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	_, err := URL(context.Background(), server.URL, &Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, gotUA)
}

func TestText_StaticPage(t *testing.T) {
	body := "<html><body><article>" + strings.Repeat("Tell me about a time you disagreed with a teammate. ", 20) + "</article></body></html>"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	rendered := false
	opts := DefaultOptions()
	opts.UseBrowser = true
	opts.Render = func(context.Context, string, time.Duration) (string, error) {
		rendered = true
		return "", nil
	}

	result, err := Text(context.Background(), server.URL, opts, nil)
	require.NoError(t, err)
	assert.Contains(t, result.Text, "disagreed with a teammate")
	assert.False(t, rendered, "long static pages should not be rendered")
}

func TestText_BrowserFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div id="root"></div></body></html>`))
	}))
	defer server.Close()

	renderedHTML := "<html><body><main>" + strings.Repeat("Implement an LRU cache. ", 40) + "</main></body></html>"
	opts := DefaultOptions()
	opts.UseBrowser = true
	opts.Render = func(_ context.Context, url string, _ time.Duration) (string, error) {
		assert.Equal(t, server.URL, url)
		return renderedHTML, nil
	}

	result, err := Text(context.Background(), server.URL, opts, DefaultTextSelectors())
	require.NoError(t, err)
	assert.Contains(t, result.Text, "Implement an LRU cache.")
	assert.Equal(t, renderedHTML, result.HTML)
}

func TestText_BrowserFailureKeepsStaticResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><main>short</main></body></html>`))
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.UseBrowser = true
	opts.Render = func(context.Context, string, time.Duration) (string, error) {
		return "", errors.New("no chrome")
	}

	result, err := Text(context.Background(), server.URL, opts, nil)
	require.NoError(t, err)
	assert.Equal(t, "short", result.Text)
}

func TestText_WithoutBrowser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><main>short</main></body></html>`))
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.Render = func(context.Context, string, time.Duration) (string, error) {
		t.Fatal("render should not be called")
		return "", nil
	}

	result, err := Text(context.Background(), server.URL, opts, nil)
	require.NoError(t, err)
	assert.Equal(t, "short", result.Text)
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("   tiny   "))
	assert.False(t, ShouldUseBrowser(strings.Repeat("x", MinContentLength)))
}
