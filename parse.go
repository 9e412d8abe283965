package docpipe

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// DefaultMinSectionTokens is the minimum whitespace-token size a child
// section should reach before the merge pass closes it.
const DefaultMinSectionTokens = 1500

// maxSplitLevel is the deepest heading level that starts a new candidate.
// H4-H6 headings stay inside the current chunk.
const maxSplitLevel = 3

// summaryRunes is the length of the content prefix stored as a summary.
const summaryRunes = 240

var (
	headingRe     = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*$`)
	mdLinkRe      = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	nonSlugRe     = regexp.MustCompile(`[^a-z0-9\-\s]`)
	multiHyphenRe = regexp.MustCompile(`-+`)
)

// ParsedSection is one pre-link section value produced by ParseSections.
// Parent/child relationships are expressed as raw paths; IDs are assigned
// later when the delta is applied against storage.
type ParsedSection struct {
	Path string

	// ParentPath is the path of the declared parent section. Empty means
	// the section is a root.
	ParentPath string

	Title      string
	Summary    string
	Content    string
	Level      int
	URL        string
	TokenCount int
	Checksum   string
}

// ParseSections deterministically transforms crawled pages into a forest of
// section values. Pages below minTokens whitespace tokens become a single
// flat section; larger pages become a root section plus heading-delimited
// children merged up to the minTokens bar. Every input line ends up in
// either the root section's content or exactly one child's content.
//
// If minTokens is not positive, DefaultMinSectionTokens is used.
func ParseSections(pages []*Page, minTokens int) []ParsedSection {
	if minTokens <= 0 {
		minTokens = DefaultMinSectionTokens
	}

	var sections []ParsedSection
	for _, page := range pages {
		sections = append(sections, parsePage(page, minTokens)...)
	}
	return sections
}

// parsePage parses a single page into sections.
func parsePage(page *Page, minTokens int) []ParsedSection {
	rootPath := RootPath(page.URL)
	totalTokens := len(strings.Fields(page.Markdown))

	var lines []string
	if page.Markdown != "" {
		lines = strings.Split(page.Markdown, "\n")
	}

	// Empty page: emit a placeholder child so the page is still represented
	// in the tree.
	if len(lines) == 0 || totalTokens == 0 {
		return []ParsedSection{newParsedSection(
			childPath(rootPath, "content"), rootPath, page.URL, "", 1, page.URL,
		)}
	}

	// Small page: one flat section holding the entire page.
	if totalTokens < minTokens {
		title := firstH1Title(lines)
		if title == "" {
			title = pageTitleFallback(rootPath)
		}
		return []ParsedSection{newParsedSection(
			rootPath, "", title, page.Markdown, 1, page.URL,
		)}
	}

	return parseLargePage(page, rootPath, minTokens, lines)
}

// candidate is a heading-delimited run of lines considered for merging.
type candidate struct {
	title string
	level int
	lines []string
}

// parseLargePage emits a mandatory root section plus merged child chunks.
func parseLargePage(page *Page, rootPath string, minTokens int, lines []string) []ParsedSection {
	title := ""
	var introLines []string
	var candidates []candidate

	i := 0
	// Intro: lines up to the first split-level heading.
	for ; i < len(lines); i++ {
		if level, _, ok := splitHeading(lines[i]); ok && level <= maxSplitLevel {
			break
		}
		introLines = append(introLines, lines[i])
	}

	// A leading H1 names the page; it and the lines that follow it stay in
	// the root section's content, with candidates starting at the next
	// split-level heading.
	if i < len(lines) {
		if level, text, _ := splitHeading(lines[i]); level == 1 {
			title = CleanHeading(text)
			introLines = append(introLines, lines[i])
			i++
			for ; i < len(lines); i++ {
				if level, _, ok := splitHeading(lines[i]); ok && level <= maxSplitLevel {
					break
				}
				introLines = append(introLines, lines[i])
			}
		}
	}
	if title == "" {
		title = pageTitleFallback(rootPath)
	}

	// Candidates: each begins at a split-level heading and includes the
	// heading line itself.
	for ; i < len(lines); i++ {
		if level, text, ok := splitHeading(lines[i]); ok && level <= maxSplitLevel {
			candidates = append(candidates, candidate{
				title: CleanHeading(text),
				level: level,
				lines: []string{lines[i]},
			})
			continue
		}
		if len(candidates) > 0 {
			last := &candidates[len(candidates)-1]
			last.lines = append(last.lines, lines[i])
		}
	}

	sections := []ParsedSection{newParsedSection(
		rootPath, "", title, strings.Join(introLines, "\n"), 1, page.URL,
	)}

	if len(candidates) == 0 {
		return sections
	}

	// Merge pass: absorb candidates into a running chunk until it reaches
	// the threshold; the final chunk is flushed regardless of size.
	slugCounts := make(map[string]int)
	var chunk candidate
	var chunkTokens int

	flush := func() {
		if len(chunk.lines) == 0 {
			return
		}
		slug := Slugify(chunk.title)
		slugCounts[slug]++
		suffix := ""
		if n := slugCounts[slug]; n > 1 {
			suffix = "-" + strconv.Itoa(n)
		}

		sectionURL := page.URL
		if chunk.level > 1 {
			sectionURL = page.URL + "#" + Slugify(chunk.title)
		}

		sections = append(sections, newParsedSection(
			childPath(rootPath, slug+suffix), rootPath, chunk.title,
			strings.Join(chunk.lines, "\n"), chunk.level, sectionURL,
		))
		chunk = candidate{}
		chunkTokens = 0
	}

	for _, cand := range candidates {
		if len(chunk.lines) == 0 {
			chunk.title = cand.title
			chunk.level = cand.level
		}
		chunk.lines = append(chunk.lines, cand.lines...)
		chunkTokens += len(strings.Fields(strings.Join(cand.lines, "\n")))

		if chunkTokens >= minTokens {
			flush()
		}
	}
	flush()

	return sections
}

// newParsedSection builds a ParsedSection with derived summary, token count
// and checksum. Content is trimmed of surrounding whitespace.
func newParsedSection(path, parentPath, title, content string, level int, url string) ParsedSection {
	content = strings.TrimSpace(content)
	return ParsedSection{
		Path:       path,
		ParentPath: parentPath,
		Title:      title,
		Summary:    summarize(content),
		Content:    content,
		Level:      level,
		URL:        url,
		TokenCount: len(strings.Fields(content)),
		Checksum:   SectionChecksum(title, content, level, url),
	}
}

// splitHeading reports whether the line is a markdown heading, returning
// its level and raw text.
func splitHeading(line string) (level int, text string, ok bool) {
	m := headingRe.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false
	}
	return len(m[1]), m[2], true
}

// firstH1Title returns the cleaned text of the first level-1 heading found
// anywhere in the lines, or an empty string.
func firstH1Title(lines []string) string {
	for _, line := range lines {
		if level, text, ok := splitHeading(line); ok && level == 1 {
			return CleanHeading(text)
		}
	}
	return ""
}

// RootPath derives a section root path from a page URL: the URL's path
// component with a leading slash enforced and the trailing slash stripped.
// An empty path becomes "/".
func RootPath(pageURL string) string {
	path := ""
	if u, err := url.Parse(pageURL); err == nil {
		path = u.Path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	path = strings.TrimRight(path, "/")
	if path == "" {
		path = "/"
	}
	return path
}

// childPath joins a child name onto a root path.
func childPath(root, name string) string {
	if root == "/" {
		return "/" + name
	}
	return root + "/" + name
}

// pageTitleFallback returns the last non-empty segment of the root path,
// or "home" for the site root.
func pageTitleFallback(rootPath string) string {
	segments := strings.Split(strings.Trim(rootPath, "/"), "/")
	last := segments[len(segments)-1]
	if unescaped, err := url.PathUnescape(last); err == nil {
		last = unescaped
	}
	if last == "" {
		return "home"
	}
	return last
}

// CleanHeading strips markdown link syntax and permalink glyphs from a
// heading, e.g. "Dependencies[¶](https://example.com/#deps)" becomes
// "Dependencies".
func CleanHeading(raw string) string {
	title := mdLinkRe.ReplaceAllString(raw, "$1")
	title = strings.ReplaceAll(title, "¶", "")
	return strings.TrimSpace(title)
}

// Slugify converts a title into a URL-safe path segment: lowercase, spaces
// and underscores become hyphens, everything else except letters, digits
// and hyphens is dropped. An empty result becomes "section".
func Slugify(value string) string {
	lowered := strings.ToLower(strings.TrimSpace(value))
	lowered = strings.ReplaceAll(lowered, "_", " ")
	cleaned := nonSlugRe.ReplaceAllString(lowered, "")
	dashed := strings.ReplaceAll(cleaned, " ", "-")
	dashed = multiHyphenRe.ReplaceAllString(dashed, "-")
	dashed = strings.Trim(dashed, "-")
	if dashed == "" {
		return "section"
	}
	return dashed
}

// SectionChecksum computes the stable content fingerprint for a section.
// Identical inputs always produce the identical checksum across runs and
// processes.
func SectionChecksum(title, content string, level int, url string) string {
	payload := fmt.Sprintf("%s\n%s\n%d\n%s", title, strings.TrimSpace(content), level, url)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// summarize returns the first 240 runes of content.
func summarize(content string) string {
	runes := []rune(content)
	if len(runes) <= summaryRunes {
		return content
	}
	return string(runes[:summaryRunes])
}
