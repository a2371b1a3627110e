package recruitment

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ems-portal/internal/models"

	"github.com/ledongthuc/pdf"
)

var (
	emailRegex     = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRegex     = regexp.MustCompile(`\+?\d[\d\s\-()/.]{7,}\d`)
	yearsRegex     = regexp.MustCompile(`(?i)(\d{1,2})\s*\+?\s*years?`)
	yearRegex      = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	yearRangeRegex = regexp.MustCompile(`(?i)\b((?:19|20)\d{2})\s*[-–]\s*((?:19|20)\d{2}|present|now|today)`)
)

// defaultSkillVocabulary is the controlled list skills are matched against.
// Matching is case-insensitive with boundary characters on both sides, so
// "go" does not fire inside "google".
var defaultSkillVocabulary = []string{
	"Go", "Golang", "Java", "Python", "JavaScript", "TypeScript", "C++", "C#",
	"Ruby", "PHP", "Rust", "Kotlin", "Swift", "Scala",
	"React", "React Native", "Angular", "Vue", "Node.js", "Next.js", "Redux",
	"HTML", "CSS", "Tailwind CSS", "GraphQL", "REST",
	"SQL", "PostgreSQL", "MySQL", "SQLite", "MongoDB", "Redis", "Elasticsearch",
	"Docker", "Kubernetes", "Terraform", "Ansible", "Jenkins", "Git",
	"AWS", "Azure", "GCP", "Linux", "CI/CD", "Kafka", "RabbitMQ", "gRPC",
	"Agile", "Scrum", "Project Management", "Recruiting", "Payroll",
	"Accounting", "Excel", "SAP", "Salesforce",
}

var sectionHeadings = map[string]string{
	"skills":               "skills",
	"technical skills":     "skills",
	"core competencies":    "skills",
	"education":            "education",
	"academic background":  "education",
	"experience":           "experience",
	"work experience":      "experience",
	"professional experience": "experience",
	"employment history":   "experience",
	"summary":              "summary",
	"profile":              "summary",
	"objective":            "summary",
	"about me":             "summary",
}

// TextResumeParser extracts structured candidate data from PDF, DOCX, DOC
// and plain-text resumes. Extraction is two-staged: document to plain text,
// then regex and vocabulary based field extraction over the text.
type TextResumeParser struct {
	vocabulary []string
	patterns   []*regexp.Regexp
}

// NewTextResumeParser creates a parser with the default skill vocabulary
func NewTextResumeParser() *TextResumeParser {
	return newParserWithVocabulary(defaultSkillVocabulary)
}

// NewTextResumeParserWithVocabulary creates a parser matching against a
// custom skill vocabulary
func NewTextResumeParserWithVocabulary(vocabulary []string) *TextResumeParser {
	return newParserWithVocabulary(vocabulary)
}

func newParserWithVocabulary(vocabulary []string) *TextResumeParser {
	parser := &TextResumeParser{
		vocabulary: vocabulary,
		patterns:   make([]*regexp.Regexp, len(vocabulary)),
	}
	for i, skill := range vocabulary {
		parser.patterns[i] = regexp.MustCompile(
			`(?i)(?:^|[\s,;:/()\[\]|])` + regexp.QuoteMeta(skill) + `(?:$|[\s,;:/()\[\]|.])`)
	}
	return parser
}

// Parse extracts a structured resume from the uploaded document
func (p *TextResumeParser) Parse(ctx context.Context, fileName string, data []byte) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ParseError{Kind: ParseErrorTimeout, FileName: fileName, Err: err}
	}
	if len(data) == 0 {
		return nil, &ParseError{Kind: ParseErrorCorruptFile, FileName: fileName, Err: fmt.Errorf("empty file")}
	}

	type extraction struct {
		text string
		err  error
	}
	done := make(chan extraction, 1)
	go func() {
		text, err := p.extractText(fileName, data)
		done <- extraction{text, err}
	}()

	var text string
	select {
	case <-ctx.Done():
		return nil, &ParseError{Kind: ParseErrorTimeout, FileName: fileName, Err: ctx.Err()}
	case result := <-done:
		if result.err != nil {
			return nil, result.err
		}
		text = result.text
	}

	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Kind: ParseErrorNoText, FileName: fileName}
	}

	return p.extractFields(text), nil
}

// extractText converts the raw document to plain text based on its extension
func (p *TextResumeParser) extractText(fileName string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return extractPDFText(fileName, data)
	case ".docx":
		return extractDOCXText(fileName, data)
	case ".doc":
		return extractPrintableRuns(data), nil
	case ".txt":
		return string(data), nil
	default:
		return "", &ParseError{Kind: ParseErrorUnsupportedFormat, FileName: fileName}
	}
}

func extractPDFText(fileName string, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ParseError{Kind: ParseErrorCorruptFile, FileName: fileName, Err: err}
	}

	content, err := reader.GetPlainText()
	if err != nil {
		return "", &ParseError{Kind: ParseErrorCorruptFile, FileName: fileName, Err: err}
	}

	text, err := io.ReadAll(content)
	if err != nil {
		return "", &ParseError{Kind: ParseErrorCorruptFile, FileName: fileName, Err: err}
	}

	return string(text), nil
}

func extractDOCXText(fileName string, data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ParseError{Kind: ParseErrorCorruptFile, FileName: fileName, Err: err}
	}

	for _, file := range archive.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", &ParseError{Kind: ParseErrorCorruptFile, FileName: fileName, Err: err}
		}
		defer rc.Close()

		var builder strings.Builder
		decoder := xml.NewDecoder(rc)
		inText := false
		for {
			token, err := decoder.Token()
			if err == io.EOF {
				break
			}
			if err != nil {
				return "", &ParseError{Kind: ParseErrorCorruptFile, FileName: fileName, Err: err}
			}

			switch element := token.(type) {
			case xml.StartElement:
				if element.Name.Local == "t" {
					inText = true
				}
			case xml.EndElement:
				if element.Name.Local == "t" {
					inText = false
				}
				if element.Name.Local == "p" {
					builder.WriteByte('\n')
				}
			case xml.CharData:
				if inText {
					builder.Write(element)
				}
			}
		}
		return builder.String(), nil
	}

	return "", &ParseError{Kind: ParseErrorCorruptFile, FileName: fileName, Err: fmt.Errorf("no document.xml in archive")}
}

// extractPrintableRuns scrapes readable character runs out of a legacy
// binary .doc file. Crude, but the format predates any structured Go reader
// worth depending on.
func extractPrintableRuns(data []byte) string {
	var builder strings.Builder
	var run []byte

	flush := func() {
		if len(run) >= 4 {
			builder.Write(run)
			builder.WriteByte('\n')
		}
		run = run[:0]
	}

	for _, b := range data {
		if b == '\n' || b == '\r' || (b >= 0x20 && b < 0x7f) {
			run = append(run, b)
		} else {
			flush()
		}
	}
	flush()

	return builder.String()
}

// extractFields runs the field-extraction stage over plain resume text
func (p *TextResumeParser) extractFields(text string) *ParseResult {
	lines := splitLines(text)
	sections := segmentSections(lines)

	resume := models.ParsedResume{
		Name:       extractName(lines),
		Email:      emailRegex.FindString(text),
		Phone:      strings.TrimSpace(phoneRegex.FindString(stripEmails(text))),
		Skills:     p.extractSkills(text, sections["skills"]),
		Education:  extractEducation(sections["education"]),
		Experience: extractExperience(sections["experience"]),
		Summary:    strings.TrimSpace(strings.Join(sections["summary"], " ")),
	}

	return &ParseResult{
		Resume:            resume,
		YearsOfExperience: extractYearsOfExperience(text, sections["experience"]),
	}
}

func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		lines = append(lines, strings.TrimSpace(line))
	}
	return lines
}

// segmentSections groups lines under the nearest preceding known heading
func segmentSections(lines []string) map[string][]string {
	sections := make(map[string][]string)
	current := ""

	for _, line := range lines {
		if line == "" {
			continue
		}
		heading := strings.ToLower(strings.TrimRight(line, ": "))
		if section, ok := sectionHeadings[heading]; ok {
			current = section
			continue
		}
		if current != "" {
			sections[current] = append(sections[current], line)
		}
	}

	return sections
}

// extractName takes the first plausible line: not a heading, no digits, no
// email address
func extractName(lines []string) string {
	for _, line := range lines {
		if line == "" {
			continue
		}
		lower := strings.ToLower(strings.TrimRight(line, ": "))
		if _, isHeading := sectionHeadings[lower]; isHeading {
			continue
		}
		if strings.ContainsAny(line, "@0123456789") {
			continue
		}
		if len(line) > 60 {
			continue
		}
		return line
	}
	return ""
}

func stripEmails(text string) string {
	return emailRegex.ReplaceAllString(text, "")
}

// extractSkills matches the vocabulary against the whole document plus any
// free-form entries listed in a skills section
func (p *TextResumeParser) extractSkills(text string, skillLines []string) []string {
	seen := make(map[string]bool)
	skills := make([]string, 0)

	for i, pattern := range p.patterns {
		if pattern.MatchString(text) {
			key := strings.ToLower(p.vocabulary[i])
			if !seen[key] {
				seen[key] = true
				skills = append(skills, p.vocabulary[i])
			}
		}
	}

	// Entries in an explicit skills section count even when outside the
	// vocabulary
	for _, line := range skillLines {
		for _, entry := range strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ';' || r == '|' || r == '•'
		}) {
			entry = strings.TrimSpace(strings.TrimLeft(entry, "-* "))
			if entry == "" || len(entry) > 40 {
				continue
			}
			key := strings.ToLower(entry)
			if !seen[key] {
				seen[key] = true
				skills = append(skills, entry)
			}
		}
	}

	return skills
}

// extractEducation parses one entry per line: "degree, school, year"
func extractEducation(lines []string) []models.EducationEntry {
	entries := make([]models.EducationEntry, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimLeft(line, "-* ")
		if line == "" {
			continue
		}

		entry := models.EducationEntry{Year: yearRegex.FindString(line)}
		parts := strings.Split(line, ",")
		entry.Degree = strings.TrimSpace(parts[0])
		if len(parts) > 1 {
			entry.School = strings.TrimSpace(parts[1])
		}
		entries = append(entries, entry)
	}

	return entries
}

// extractExperience parses one entry per line: "title, company, duration".
// Indented or bulleted continuation lines accumulate into the description
// of the previous entry.
func extractExperience(lines []string) []models.ExperienceEntry {
	entries := make([]models.ExperienceEntry, 0, len(lines))

	for _, line := range lines {
		if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") || strings.HasPrefix(line, "•") {
			if len(entries) > 0 {
				detail := strings.TrimSpace(strings.TrimLeft(line, "-*• "))
				last := &entries[len(entries)-1]
				if last.Description != "" {
					last.Description += " "
				}
				last.Description += detail
			}
			continue
		}
		if line == "" {
			continue
		}

		entry := models.ExperienceEntry{Duration: yearRangeRegex.FindString(line)}
		parts := strings.Split(line, ",")
		entry.Title = strings.TrimSpace(parts[0])
		if len(parts) > 1 {
			entry.Company = strings.TrimSpace(parts[1])
		}
		entries = append(entries, entry)
	}

	return entries
}

// extractYearsOfExperience prefers an explicit "N years" statement and
// falls back to the span of dated roles in the experience section
func extractYearsOfExperience(text string, experienceLines []string) int {
	best := 0
	for _, match := range yearsRegex.FindAllStringSubmatch(text, -1) {
		if years, err := strconv.Atoi(match[1]); err == nil && years > best && years < 60 {
			best = years
		}
	}
	if best > 0 {
		return best
	}

	earliest, latest := 0, 0
	for _, line := range experienceLines {
		for _, match := range yearRangeRegex.FindAllStringSubmatch(line, -1) {
			start, err := strconv.Atoi(match[1])
			if err != nil {
				continue
			}
			end := time.Now().Year()
			if parsed, err := strconv.Atoi(match[2]); err == nil {
				end = parsed
			}
			if earliest == 0 || start < earliest {
				earliest = start
			}
			if end > latest {
				latest = end
			}
		}
	}
	if earliest > 0 && latest >= earliest {
		return latest - earliest
	}

	return 0
}
