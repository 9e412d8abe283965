package readability_test

import (
	"testing"

	"github.com/fwojciec/docpipe"
	"github.com/fwojciec/docpipe/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// docPage wraps a body in the skeleton of a typical documentation page.
func docPage(body string) string {
	return `<!DOCTYPE html>
<html>
<head><title>Webhooks | Acme API Reference</title></head>
<body>
` + body + `
</body>
</html>`
}

func TestExtractor_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	ext := readability.NewExtractor()
	_, err := ext.Extract("")

	require.Error(t, err)
	assert.Equal(t, docpipe.EINVALID, docpipe.ErrorCode(err))
}

func TestExtractor_ExtractsTitle(t *testing.T) {
	t.Parallel()

	ext := readability.NewExtractor()
	result, err := ext.Extract(docPage(`<article><p>Webhook payloads are signed.</p></article>`))

	require.NoError(t, err)
	assert.Equal(t, "Webhooks | Acme API Reference", result.Title)
}

func TestExtractor_StripsPageChrome(t *testing.T) {
	t.Parallel()

	article := `<article><p>Every webhook delivery carries an HMAC signature header that the receiver should verify before trusting the payload.</p></article>`

	tests := []struct {
		name   string
		body   string
		absent []string
	}{
		{
			name: "navigation bar",
			body: `<nav><a href="/guides">Guides Nav Item</a><a href="/reference">Reference Nav Item</a></nav>` + article,
			absent: []string{
				"Guides Nav Item",
				"Reference Nav Item",
			},
		},
		{
			name:   "footer",
			body:   article + `<footer><p>Copyright Acme Corp, all rights reserved</p></footer>`,
			absent: []string{"Copyright Acme Corp"},
		},
		{
			name:   "sidebar",
			body:   `<aside class="sidebar"><p>On this page: verification, retries</p></aside>` + article,
			absent: []string{"On this page"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ext := readability.NewExtractor()
			result, err := ext.Extract(docPage(tt.body))

			require.NoError(t, err)
			assert.Contains(t, result.ContentHTML, "HMAC signature header")
			for _, text := range tt.absent {
				assert.NotContains(t, result.ContentHTML, text)
			}
		})
	}
}

func TestExtractor_PreservesDocumentationMarkup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		present []string
	}{
		{
			// go-readability may demote h1 to h2, but heading text survives.
			name: "headings",
			body: `<article>
<h1>Webhooks</h1>
<p>Webhooks notify your server about events as they happen.</p>
<h2>Verifying Deliveries</h2>
<p>Compare the signature header against your shared secret.</p>
</article>`,
			present: []string{"Webhooks", "Verifying Deliveries", "<h2"},
		},
		{
			name: "paragraphs",
			body: `<article>
<p>Deliveries are retried with exponential backoff.</p>
<p>After ten failed attempts the endpoint is disabled.</p>
</article>`,
			present: []string{"<p"},
		},
		{
			name: "lists",
			body: `<article>
<p>Supported event types:</p>
<ul>
<li>job.completed</li>
<li>job.failed</li>
</ul>
</article>`,
			present: []string{"<ul", "<li"},
		},
		{
			name: "tables",
			body: `<article>
<p>Delivery headers:</p>
<table>
<tr><th>Header</th><th>Meaning</th></tr>
<tr><td>X-Acme-Signature</td><td>HMAC of the body</td></tr>
</table>
</article>`,
			present: []string{"<table"},
		},
		{
			name: "links",
			body: `<article>
<p>See the <a href="https://docs.acme.dev/events">event catalog</a> for the full list.</p>
</article>`,
			present: []string{"<a"},
		},
		{
			name: "inline code",
			body: `<article>
<p>Read the secret from <code>ACME_WEBHOOK_SECRET</code> at startup.</p>
</article>`,
			present: []string{"<code"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ext := readability.NewExtractor()
			result, err := ext.Extract(docPage(tt.body))

			require.NoError(t, err)
			for _, want := range tt.present {
				assert.Contains(t, result.ContentHTML, want)
			}
		})
	}
}

func TestExtractor_PreservesCodeBlocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		present []string
	}{
		{
			name: "plain pre block",
			body: `<article>
<p>Register an endpoint:</p>
<pre><code>acme webhooks add https://example.com/hooks</code></pre>
<p>The endpoint receives a test ping.</p>
</article>`,
			present: []string{"<pre", "acme webhooks add"},
		},
		{
			// Syntax highlighters wrap tokens in spans.
			name: "highlighted spans",
			body: `<article>
<p>Verify a signature:</p>
<pre><code><div class="line"><span class="token">acme</span> <span class="token">verify</span></div></code></pre>
<p>A zero exit code means the payload is authentic.</p>
</article>`,
			present: []string{"<pre", "acme", "verify"},
		},
		{
			// Docs frameworks bury the pre under decorative wrappers.
			name: "wrapper divs",
			body: `<article>
<p>Install the CLI:</p>
<div class="expressive-code">
<figure>
<pre><code>npm install -g @acme/cli</code></pre>
</figure>
</div>
<p>Now the acme command is on your path.</p>
</article>`,
			present: []string{"<pre", "npm install -g @acme/cli"},
		},
		{
			name: "language hints",
			body: `<article>
<p>Example request:</p>
<pre data-language="bash"><code class="language-bash">curl https://api.acme.dev/v1/jobs</code></pre>
<p>The response is JSON.</p>
</article>`,
			present: []string{"bash"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ext := readability.NewExtractor()
			result, err := ext.Extract(docPage(tt.body))

			require.NoError(t, err)
			for _, want := range tt.present {
				assert.Contains(t, result.ContentHTML, want)
			}
		})
	}
}
