package models

import "strings"

// FileType is the coarse classification shown next to a file.
type FileType string

const (
	TypeImage        FileType = "image"
	TypeVideo        FileType = "video"
	TypeAudio        FileType = "audio"
	TypeArchive      FileType = "archive"
	TypePDF          FileType = "pdf"
	TypeDocument     FileType = "document"
	TypeSpreadsheet  FileType = "spreadsheet"
	TypePresentation FileType = "presentation"
)

// FileTypes lists every classification FileTypeFromMIME can return.
var FileTypes = []FileType{
	TypeImage, TypeVideo, TypeAudio, TypeArchive, TypePDF,
	TypeDocument, TypeSpreadsheet, TypePresentation,
}

// FileTypeFromMIME classifies a MIME type. Spreadsheet and presentation checks run before the
// generic document check because OOXML types all contain "officedocument".
// Unknown or empty input is a document.
func FileTypeFromMIME(mimeType string) FileType {
	t := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case t == "":
		return TypeDocument
	case strings.HasPrefix(t, "image/"):
		return TypeImage
	case strings.HasPrefix(t, "video/"):
		return TypeVideo
	case strings.HasPrefix(t, "audio/"):
		return TypeAudio
	case containsAny(t, "zip", "compressed", "archive"):
		return TypeArchive
	case strings.Contains(t, "pdf"):
		return TypePDF
	case containsAny(t, "spreadsheet", "excel", "sheet"):
		return TypeSpreadsheet
	case containsAny(t, "presentation", "powerpoint", "slide"):
		return TypePresentation
	case containsAny(t, "word", "document", "text"):
		return TypeDocument
	}
	return TypeDocument
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
