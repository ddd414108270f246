package rag

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/tsawler/rtfkit/model"
)

// ChunkLevel represents the hierarchical level of a chunk
type ChunkLevel int

const (
	// ChunkLevelDocument represents the entire document as one chunk
	ChunkLevelDocument ChunkLevel = iota
	// ChunkLevelSection represents a section defined by headings
	ChunkLevelSection
	// ChunkLevelParagraph represents a group of whole paragraphs
	ChunkLevelParagraph
	// ChunkLevelSentence represents sentences of an oversized paragraph
	ChunkLevelSentence
)

// String returns a human-readable representation of the chunk level
func (cl ChunkLevel) String() string {
	switch cl {
	case ChunkLevelDocument:
		return "document"
	case ChunkLevelSection:
		return "section"
	case ChunkLevelParagraph:
		return "paragraph"
	case ChunkLevelSentence:
		return "sentence"
	default:
		return "unknown"
	}
}

// MarshalText encodes the level by name.
func (cl ChunkLevel) MarshalText() ([]byte, error) {
	return []byte(cl.String()), nil
}

// ChunkMetadata contains metadata about a chunk's place in the document
type ChunkMetadata struct {
	// DocumentTitle is the \title of the source document
	DocumentTitle string `json:"document_title,omitempty"`

	// SectionPath is the hierarchical path of headings (e.g., ["Chapter 1", "Overview"])
	SectionPath []string `json:"section_path,omitempty"`

	// SectionTitle is the immediate section heading (last element of SectionPath)
	SectionTitle string `json:"section_title,omitempty"`

	// HeadingLevel is the level of the current section (1-6, 0 if no heading)
	HeadingLevel int `json:"heading_level,omitempty"`

	// ChunkIndex is the position of this chunk in the document (0-indexed)
	ChunkIndex int `json:"chunk_index"`

	// TotalChunks is the total number of chunks in the document
	TotalChunks int `json:"total_chunks,omitempty"`

	// Level is the hierarchical level of this chunk
	Level ChunkLevel `json:"level"`

	// ElementTypes lists the types of elements contained
	ElementTypes []string `json:"element_types,omitempty"`

	HasTable bool `json:"has_table,omitempty"`
	HasImage bool `json:"has_image,omitempty"`

	// TextStart and TextEnd are byte offsets into Document.Text covering
	// the chunk's elements.
	TextStart int `json:"text_start"`
	TextEnd   int `json:"text_end"`

	CharCount int `json:"char_count"`
	WordCount int `json:"word_count"`

	// EstimatedTokens is an estimated token count (chars/4)
	EstimatedTokens int `json:"estimated_tokens"`
}

// Chunk is a unit of document text for retrieval
type Chunk struct {
	ID   string `json:"id"`
	Text string `json:"text"`

	// TextWithContext is the text with the section heading prepended
	TextWithContext string `json:"text_with_context,omitempty"`

	Metadata ChunkMetadata `json:"metadata"`
}

// NewChunk creates a new chunk with the given text and metadata
func NewChunk(id, text string, metadata ChunkMetadata) *Chunk {
	metadata.CharCount = len(text)
	metadata.WordCount = countWords(text)
	metadata.EstimatedTokens = len(text) / 4

	chunk := &Chunk{
		ID:       id,
		Text:     text,
		Metadata: metadata,
	}
	chunk.TextWithContext = chunk.generateContextualText()
	return chunk
}

// generateContextualText creates text with section heading prepended
func (c *Chunk) generateContextualText() string {
	if c.Metadata.SectionTitle == "" {
		return c.Text
	}
	return fmt.Sprintf("[%s]\n\n%s", c.Metadata.SectionTitle, c.Text)
}

// GetSectionPathString returns the section path as a formatted string
func (c *Chunk) GetSectionPathString() string {
	if len(c.Metadata.SectionPath) == 0 {
		return ""
	}
	return strings.Join(c.Metadata.SectionPath, " > ")
}

// ChunkerConfig holds configuration options for the chunker
type ChunkerConfig struct {
	// MaxChunkSize is the hard limit for chunk size in bytes. Larger
	// paragraphs are split at sentence boundaries; tables are never split.
	// Default: 2000
	MaxChunkSize int

	// OverlapSentences is the number of trailing sentences repeated at the
	// start of the next chunk when a section is split.
	// Default: 1
	OverlapSentences int

	// IncludeSectionContext prepends the section heading to TextWithContext
	// Default: true
	IncludeSectionContext bool

	// SplitOnHeadings starts new sections at headings
	// Default: true
	SplitOnHeadings bool

	// MinHeadingLevel is the deepest heading level that starts a section
	// Default: 3 (split on H1, H2, H3)
	MinHeadingLevel int

	// IDPrefix is a prefix for generated chunk IDs
	// Default: "chunk"
	IDPrefix string
}

// DefaultChunkerConfig returns the default configuration
func DefaultChunkerConfig() ChunkerConfig {
	return ChunkerConfig{
		MaxChunkSize:          2000,
		OverlapSentences:      1,
		IncludeSectionContext: true,
		SplitOnHeadings:       true,
		MinHeadingLevel:       3,
		IDPrefix:              "chunk",
	}
}

// Validate reports configuration values the chunker cannot work with.
func (cfg ChunkerConfig) Validate() error {
	if cfg.MaxChunkSize <= 0 {
		return errors.New("rag: MaxChunkSize must be positive")
	}
	if cfg.OverlapSentences < 0 {
		return errors.New("rag: OverlapSentences must not be negative")
	}
	return nil
}

// Chunker splits documents into chunks
type Chunker struct {
	config ChunkerConfig
}

// NewChunker creates a new chunker with default configuration
func NewChunker() *Chunker {
	return &Chunker{config: DefaultChunkerConfig()}
}

// NewChunkerWithConfig creates a chunker with custom configuration
func NewChunkerWithConfig(config ChunkerConfig) *Chunker {
	if config.IDPrefix == "" {
		config.IDPrefix = "chunk"
	}
	return &Chunker{config: config}
}

// ChunkResult contains the chunking output
type ChunkResult struct {
	// Chunks are the generated chunks in text order
	Chunks []*Chunk

	DocumentTitle string

	Stats ChunkStats
}

// ChunkStats contains statistics about the chunking process
type ChunkStats struct {
	TotalChunks     int
	TotalCharacters int
	TotalWords      int
	TotalTokensEst  int
	AvgChunkSize    int
	MinChunkSize    int
	MaxChunkSize    int
	SectionChunks   int
	ParagraphChunks int
	SentenceChunks  int
}

// section is a run of elements under one heading.
type section struct {
	title   string
	level   int
	path    []string
	content []ContentElement
}

// Chunk processes a document and returns its chunks
func (c *Chunker) Chunk(doc *model.Document) (*ChunkResult, error) {
	if doc == nil {
		return nil, errors.New("document is nil")
	}
	if err := c.config.Validate(); err != nil {
		return nil, err
	}

	result := &ChunkResult{
		Chunks:        make([]*Chunk, 0),
		DocumentTitle: doc.Metadata.Title,
	}

	sections := c.buildSections(Elements(doc))
	for _, s := range sections {
		result.Chunks = append(result.Chunks, c.chunkSection(s, doc.Metadata.Title)...)
	}

	for i, chunk := range result.Chunks {
		chunk.ID = fmt.Sprintf("%s_%d", c.config.IDPrefix, i)
		chunk.Metadata.ChunkIndex = i
		chunk.Metadata.TotalChunks = len(result.Chunks)
	}
	result.Stats = c.calculateStats(result.Chunks)

	return result, nil
}

// buildSections groups elements under the headings that start sections.
// Headings deeper than MinHeadingLevel stay in the content.
func (c *Chunker) buildSections(elements []ContentElement) []*section {
	var sections []*section
	current := &section{}
	var stack []*section

	for _, el := range elements {
		if el.Type != ElementHeading || !c.config.SplitOnHeadings || el.Level > c.config.MinHeadingLevel {
			current.content = append(current.content, el)
			continue
		}

		if len(current.content) > 0 {
			sections = append(sections, current)
		}

		for len(stack) > 0 && stack[len(stack)-1].level >= el.Level {
			stack = stack[:len(stack)-1]
		}
		path := make([]string, 0, len(stack)+1)
		for _, s := range stack {
			path = append(path, s.title)
		}
		path = append(path, el.Text)

		current = &section{title: el.Text, level: el.Level, path: path}
		stack = append(stack, current)
	}

	if len(current.content) > 0 {
		sections = append(sections, current)
	}
	return sections
}

// chunkBuilder accumulates elements for one chunk.
type chunkBuilder struct {
	text         strings.Builder
	elementTypes []string
	hasTable     bool
	hasImage     bool
	start, end   int
	elements     int
}

func (b *chunkBuilder) add(el ContentElement) {
	if b.text.Len() > 0 {
		b.text.WriteString("\n\n")
	}
	b.text.WriteString(el.Text)

	if b.elements == 0 {
		b.start = el.Start
	}
	b.end = max(b.end, el.End)
	b.elements++

	name := el.Type.String()
	found := false
	for _, et := range b.elementTypes {
		if et == name {
			found = true
			break
		}
	}
	if !found {
		b.elementTypes = append(b.elementTypes, name)
	}

	switch el.Type {
	case ElementTable:
		b.hasTable = true
	case ElementImage:
		b.hasImage = true
	}
}

// addedLen returns the length of b after appending text.
func (b *chunkBuilder) addedLen(text string) int {
	if b.text.Len() == 0 {
		return len(text)
	}
	return b.text.Len() + 2 + len(text)
}

// chunkSection processes a section into chunks
func (c *Chunker) chunkSection(s *section, docTitle string) []*Chunk {
	var whole chunkBuilder
	for _, el := range s.content {
		whole.add(el)
	}
	if strings.TrimSpace(whole.text.String()) == "" {
		return nil
	}
	if whole.text.Len() <= c.config.MaxChunkSize {
		return []*Chunk{c.createChunk(&whole, s, docTitle, ChunkLevelSection)}
	}
	return c.splitSectionByParagraphs(s, docTitle)
}

// splitSectionByParagraphs splits a large section into chunks of whole
// elements. Oversized paragraphs are split by sentences.
func (c *Chunker) splitSectionByParagraphs(s *section, docTitle string) []*Chunk {
	var chunks []*Chunk
	cur := &chunkBuilder{}

	flush := func() {
		if cur.elements == 0 {
			return
		}
		chunks = append(chunks, c.createChunk(cur, s, docTitle, ChunkLevelParagraph))
		overlap := c.overlap(cur.text.String())
		cur = &chunkBuilder{}
		if overlap != "" {
			cur.text.WriteString(overlap)
		}
	}

	for _, el := range s.content {
		if cur.addedLen(el.Text) > c.config.MaxChunkSize && cur.elements > 0 {
			flush()
		}
		if cur.addedLen(el.Text) > c.config.MaxChunkSize {
			// the overlap alone does not leave room
			cur.text.Reset()
		}

		if el.Type == ElementParagraph && len(el.Text) > c.config.MaxChunkSize {
			chunks = append(chunks, c.splitBySentences(el, s, docTitle)...)
			cur = &chunkBuilder{}
			continue
		}
		cur.add(el)
	}
	flush()

	return chunks
}

// splitBySentences splits an oversized paragraph into sentence-based chunks
func (c *Chunker) splitBySentences(el ContentElement, s *section, docTitle string) []*Chunk {
	var chunks []*Chunk
	var text strings.Builder

	emit := func() {
		b := &chunkBuilder{}
		b.add(ContentElement{Type: el.Type, Text: text.String(), Start: el.Start, End: el.End})
		chunks = append(chunks, c.createChunk(b, s, docTitle, ChunkLevelSentence))
		text.Reset()
	}

	for _, sentence := range splitIntoSentences(el.Text) {
		added := len(sentence)
		if text.Len() > 0 {
			added++
		}
		if text.Len()+added > c.config.MaxChunkSize && text.Len() > 0 {
			emit()
		}
		if text.Len() > 0 {
			text.WriteByte(' ')
		}
		text.WriteString(sentence)
	}
	if text.Len() > 0 {
		emit()
	}
	return chunks
}

// overlap returns the trailing sentences of text to repeat in the next
// chunk.
func (c *Chunker) overlap(text string) string {
	if c.config.OverlapSentences <= 0 {
		return ""
	}
	sentences := splitIntoSentences(text)
	if len(sentences) <= c.config.OverlapSentences {
		return ""
	}
	return strings.Join(sentences[len(sentences)-c.config.OverlapSentences:], " ")
}

// createChunk creates a new Chunk from the accumulated elements
func (c *Chunker) createChunk(b *chunkBuilder, s *section, docTitle string, level ChunkLevel) *Chunk {
	metadata := ChunkMetadata{
		DocumentTitle: docTitle,
		SectionPath:   s.path,
		SectionTitle:  s.title,
		HeadingLevel:  s.level,
		Level:         level,
		ElementTypes:  b.elementTypes,
		HasTable:      b.hasTable,
		HasImage:      b.hasImage,
		TextStart:     b.start,
		TextEnd:       b.end,
	}
	return c.newChunk(b.text.String(), metadata)
}

func (c *Chunker) newChunk(text string, metadata ChunkMetadata) *Chunk {
	chunk := NewChunk("", text, metadata)
	if !c.config.IncludeSectionContext {
		chunk.TextWithContext = chunk.Text
	}
	return chunk
}

// calculateStats computes statistics about the chunks
func (c *Chunker) calculateStats(chunks []*Chunk) ChunkStats {
	stats := ChunkStats{
		TotalChunks:  len(chunks),
		MinChunkSize: -1,
	}

	for _, chunk := range chunks {
		stats.TotalCharacters += chunk.Metadata.CharCount
		stats.TotalWords += chunk.Metadata.WordCount
		stats.TotalTokensEst += chunk.Metadata.EstimatedTokens

		if stats.MinChunkSize < 0 || chunk.Metadata.CharCount < stats.MinChunkSize {
			stats.MinChunkSize = chunk.Metadata.CharCount
		}
		if chunk.Metadata.CharCount > stats.MaxChunkSize {
			stats.MaxChunkSize = chunk.Metadata.CharCount
		}

		switch chunk.Metadata.Level {
		case ChunkLevelSection:
			stats.SectionChunks++
		case ChunkLevelParagraph:
			stats.ParagraphChunks++
		case ChunkLevelSentence:
			stats.SentenceChunks++
		}
	}

	if len(chunks) > 0 {
		stats.AvgChunkSize = stats.TotalCharacters / len(chunks)
	}
	if stats.MinChunkSize < 0 {
		stats.MinChunkSize = 0
	}
	return stats
}

// countWords counts the number of words in text
func countWords(text string) int {
	words := 0
	inWord := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			inWord = false
		} else if !inWord {
			inWord = true
			words++
		}
	}
	return words
}

// splitIntoSentences splits text after '.', '!' and '?'. A stop followed
// by a lowercase letter, or after a lone capital ("J. Smith"), does not end
// a sentence.
func splitIntoSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if i+2 < len(runes) && unicode.IsLower(runes[i+2]) {
			continue
		}
		if r == '.' && i > 0 && unicode.IsUpper(runes[i-1]) && (i == 1 || unicode.IsSpace(runes[i-2])) {
			continue
		}

		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		start = i + 1
	}

	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
