package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttachedFiles(t *testing.T) {
	content := "공지 내용입니다.\n[attachment:report.pdf:/files/report.pdf]\n[attachment:사진.png:/files/photo.png]"

	attachments := parseAttachedFiles(content)
	require.Len(t, attachments, 2)
	assert.Equal(t, "report.pdf", attachments[0].Name)
	assert.Equal(t, "/files/report.pdf", attachments[0].URL)
	assert.Equal(t, "사진.png", attachments[1].Name)
}

func TestParseAttachedFilesNone(t *testing.T) {
	attachments := parseAttachedFiles("본문에 첨부파일이 없습니다")
	assert.Empty(t, attachments)
}

func TestParseAttachedFilesIgnoresInlineMention(t *testing.T) {
	// Marker must occupy a full line; mid-line mentions are plain text.
	attachments := parseAttachedFiles("see [attachment:a.txt:/a.txt] inline")
	assert.Empty(t, attachments)
}

func TestCleanContent(t *testing.T) {
	content := "첫 줄\n[attachment:a.txt:/files/a.txt]\n둘째 줄"
	assert.Equal(t, "첫 줄\n\n둘째 줄", cleanContent(content))

	assert.Equal(t, "그대로", cleanContent("그대로"))
}
