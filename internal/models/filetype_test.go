package models

import (
	"slices"
	"testing"
)

func TestFileTypeFromMIME(t *testing.T) {
	cases := []struct {
		mime string
		want FileType
	}{
		{"", TypeDocument},
		{"   ", TypeDocument},
		{"image/png", TypeImage},
		{"IMAGE/JPEG", TypeImage},
		{"video/mp4", TypeVideo},
		{"audio/mpeg", TypeAudio},
		{"application/zip", TypeArchive},
		{"application/x-7z-compressed", TypeArchive},
		{"application/pdf", TypePDF},
		{"application/msword", TypeDocument},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", TypeDocument},
		{"text/plain", TypeDocument},
		{"application/json", TypeDocument},
		{"application/vnd.ms-excel", TypeSpreadsheet},
		{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", TypeSpreadsheet},
		{"application/vnd.ms-powerpoint", TypePresentation},
		{"application/vnd.openxmlformats-officedocument.presentationml.presentation", TypePresentation},
		{"application/octet-stream", TypeDocument},
		{"something/unknown", TypeDocument},
	}
	for _, tc := range cases {
		if got := FileTypeFromMIME(tc.mime); got != tc.want {
			t.Errorf("FileTypeFromMIME(%q) = %q, want %q", tc.mime, got, tc.want)
		}
	}
}

func TestFileTypeFromMIMEIsTotal(t *testing.T) {
	inputs := []string{"", "x", "/", "image/", "application/x-tar", "model/gltf+json", "font/woff2", "chemical/x-pdb"}
	for _, in := range inputs {
		if got := FileTypeFromMIME(in); !slices.Contains(FileTypes, got) {
			t.Errorf("FileTypeFromMIME(%q) = %q, not a known type", in, got)
		}
	}
}

func TestFileNormalize(t *testing.T) {
	f := File{Size: -3}
	f.Normalize()
	if f.Name != "Unknown file" || f.Type != TypeDocument || f.Size != 0 {
		t.Fatalf("normalized = %+v", f)
	}
}
