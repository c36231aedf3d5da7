package grounding

import (
	"fmt"
	"sort"
	"strings"

	"google.golang.org/genai"
)

// Source is one bibliography entry: a small integer tag identifying a
// distinct cited source within one answer.
type Source struct {
	Tag   int
	Title string
	URI   string
}

// String renders the bibliography line for this source.
func (s Source) String() string {
	switch {
	case s.Title != "" && s.URI != "":
		return fmt.Sprintf("[%d] %s (%s)", s.Tag, s.Title, s.URI)
	case s.URI != "":
		return fmt.Sprintf("[%d] %s", s.Tag, s.URI)
	default:
		return fmt.Sprintf("[%d] %s", s.Tag, s.Title)
	}
}

// GroundedAnswer is the post-processed result: answer text with inline tags
// plus the ordered bibliography.
type GroundedAnswer struct {
	Text    string
	Sources []Source
}

// chunkSource extracts the identifying (title, uri) pair from a grounding
// chunk regardless of its provenance.
func chunkSource(chunk *genai.GroundingChunk) (title, uri string) {
	if chunk == nil {
		return "", ""
	}
	if rc := chunk.RetrievedContext; rc != nil {
		return rc.Title, rc.URI
	}
	if web := chunk.Web; web != nil {
		return web.Title, web.URI
	}
	return "", ""
}

// Annotate rewrites text with inline citation tags and returns the
// deduplicated bibliography. Tags are 1-based and assigned per distinct
// source (URI, falling back to title) in first-seen order over the chunk
// list; two chunks sharing a source share a tag. Support segments carry
// byte offsets into the answer text; markers are inserted at each segment's
// end, processed back to front so earlier offsets stay valid.
func Annotate(text string, supports []*genai.GroundingSupport, chunks []*genai.GroundingChunk) GroundedAnswer {
	chunkTag := make(map[int]int, len(chunks))
	keyTag := make(map[string]int)
	var sources []Source

	for i, chunk := range chunks {
		title, uri := chunkSource(chunk)
		key := uri
		if key == "" {
			key = title
		}
		if key == "" {
			continue
		}
		tag, ok := keyTag[key]
		if !ok {
			tag = len(sources) + 1
			keyTag[key] = tag
			sources = append(sources, Source{Tag: tag, Title: title, URI: uri})
		}
		chunkTag[i] = tag
	}

	ordered := make([]*genai.GroundingSupport, 0, len(supports))
	for _, sup := range supports {
		if sup != nil && sup.Segment != nil {
			ordered = append(ordered, sup)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Segment.EndIndex > ordered[j].Segment.EndIndex
	})

	for _, sup := range ordered {
		marker := supportMarker(sup, chunkTag)
		if marker == "" {
			continue
		}
		at := int(sup.Segment.EndIndex)
		if at < 0 {
			at = 0
		}
		if at > len(text) {
			at = len(text)
		}
		text = text[:at] + marker + text[at:]
	}

	return GroundedAnswer{Text: text, Sources: sources}
}

// supportMarker builds the inline marker for one support, deduplicating
// repeated tags within it while preserving order.
func supportMarker(sup *genai.GroundingSupport, chunkTag map[int]int) string {
	var b strings.Builder
	seen := map[int]bool{}
	for _, idx := range sup.GroundingChunkIndices {
		tag, ok := chunkTag[int(idx)]
		if !ok || seen[tag] {
			continue
		}
		seen[tag] = true
		fmt.Fprintf(&b, "[%d]", tag)
	}
	return b.String()
}
