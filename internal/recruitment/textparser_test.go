package recruitment

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResumeText = `Erika Musterfrau
Email: erika.musterfrau@example.com
Phone: +49 151 23456789

Summary
Backend engineer with 6 years of experience building services.

Skills
Go, PostgreSQL, Docker, Kubernetes

Experience
Senior Software Engineer, Acme GmbH, 2019-2023
- Built the invoicing pipeline
Software Engineer, Beispiel AG, 2016-2019

Education
B.Sc. Computer Science, TU Berlin, 2016
`

func TestTextResumeParser_ParsePlainText(t *testing.T) {
	parser := NewTextResumeParser()

	result, err := parser.Parse(context.Background(), "resume.txt", []byte(sampleResumeText))
	require.NoError(t, err)

	resume := result.Resume
	assert.Equal(t, "Erika Musterfrau", resume.Name)
	assert.Equal(t, "erika.musterfrau@example.com", resume.Email)
	assert.Equal(t, "+49 151 23456789", resume.Phone)
	assert.Contains(t, resume.Skills, "Go")
	assert.Contains(t, resume.Skills, "PostgreSQL")
	assert.Contains(t, resume.Skills, "Docker")
	assert.Contains(t, resume.Skills, "Kubernetes")

	require.Len(t, resume.Experience, 2)
	assert.Equal(t, "Senior Software Engineer", resume.Experience[0].Title)
	assert.Equal(t, "Acme GmbH", resume.Experience[0].Company)
	assert.Equal(t, "2019-2023", resume.Experience[0].Duration)
	assert.Contains(t, resume.Experience[0].Description, "invoicing pipeline")

	require.Len(t, resume.Education, 1)
	assert.Equal(t, "B.Sc. Computer Science", resume.Education[0].Degree)
	assert.Equal(t, "TU Berlin", resume.Education[0].School)
	assert.Equal(t, "2016", resume.Education[0].Year)

	assert.Equal(t, 6, result.YearsOfExperience)
	assert.Contains(t, resume.Summary, "Backend engineer")
}

func TestTextResumeParser_IdempotentReparse(t *testing.T) {
	parser := NewTextResumeParser()
	data := []byte(sampleResumeText)

	first, err := parser.Parse(context.Background(), "resume.txt", data)
	require.NoError(t, err)
	second, err := parser.Parse(context.Background(), "resume.txt", data)
	require.NoError(t, err)

	assert.Equal(t, first.Resume, second.Resume)
	assert.Equal(t, first.YearsOfExperience, second.YearsOfExperience)
}

func TestTextResumeParser_ParseDOCX(t *testing.T) {
	parser := NewTextResumeParser()
	data := buildDOCX(t,
		"Max Beispiel",
		"max@example.com",
		"Skills",
		"Go, Docker",
		"Experience",
		"Platform Engineer, Acme GmbH, 2020-2024",
	)

	result, err := parser.Parse(context.Background(), "resume.docx", data)
	require.NoError(t, err)

	assert.Equal(t, "Max Beispiel", result.Resume.Name)
	assert.Equal(t, "max@example.com", result.Resume.Email)
	assert.Contains(t, result.Resume.Skills, "Go")
	assert.Contains(t, result.Resume.Skills, "Docker")
	require.Len(t, result.Resume.Experience, 1)
	assert.Equal(t, "Platform Engineer", result.Resume.Experience[0].Title)
	// No explicit "N years" statement, so the dated role span is used
	assert.Equal(t, 4, result.YearsOfExperience)
}

func TestTextResumeParser_UnsupportedFormat(t *testing.T) {
	parser := NewTextResumeParser()

	_, err := parser.Parse(context.Background(), "resume.png", []byte("binary"))
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, ParseErrorUnsupportedFormat, parseErr.Kind)
}

func TestTextResumeParser_CorruptFile(t *testing.T) {
	parser := NewTextResumeParser()

	t.Run("empty_file", func(t *testing.T) {
		_, err := parser.Parse(context.Background(), "resume.pdf", nil)
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, ParseErrorCorruptFile, parseErr.Kind)
	})

	t.Run("not_a_pdf", func(t *testing.T) {
		_, err := parser.Parse(context.Background(), "resume.pdf", []byte("plain text pretending"))
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, ParseErrorCorruptFile, parseErr.Kind)
	})

	t.Run("not_a_docx", func(t *testing.T) {
		_, err := parser.Parse(context.Background(), "resume.docx", []byte("not a zip archive"))
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, ParseErrorCorruptFile, parseErr.Kind)
	})
}

func TestTextResumeParser_NoExtractableText(t *testing.T) {
	parser := NewTextResumeParser()

	_, err := parser.Parse(context.Background(), "resume.txt", []byte("   \n\t  \n"))
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, ParseErrorNoText, parseErr.Kind)
}

func TestTextResumeParser_CancelledContext(t *testing.T) {
	parser := NewTextResumeParser()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := parser.Parse(ctx, "resume.txt", []byte(sampleResumeText))
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, ParseErrorTimeout, parseErr.Kind)
}

func TestTextResumeParser_VocabularyBoundaries(t *testing.T) {
	parser := NewTextResumeParser()

	result, err := parser.Parse(context.Background(), "resume.txt",
		[]byte("Jane Roe\nWorked at Google on search infrastructure."))
	require.NoError(t, err)

	// "Go" must not fire inside "Google"
	assert.NotContains(t, result.Resume.Skills, "Go")
}

func TestTextResumeParser_CustomVocabulary(t *testing.T) {
	parser := NewTextResumeParserWithVocabulary([]string{"Forklift Operation"})

	result, err := parser.Parse(context.Background(), "resume.txt",
		[]byte("John Smith\nCertified in Forklift Operation since 2018."))
	require.NoError(t, err)

	assert.Contains(t, result.Resume.Skills, "Forklift Operation")
}

func buildDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)

	doc, err := writer.Create("word/document.xml")
	require.NoError(t, err)

	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, paragraph := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>`)
		if err := xmlEscape(&body, paragraph); err != nil {
			t.Fatal(err)
		}
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	_, err = doc.Write(body.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return buf.Bytes()
}

func xmlEscape(buf *bytes.Buffer, text string) error {
	for _, r := range text {
		switch r {
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '&':
			buf.WriteString("&amp;")
		default:
			buf.WriteRune(r)
		}
	}
	return nil
}
