// Package evidence flattens the comma separated evidence URLs stored on an activity
// into individual items with an inferred media kind.
package evidence

import (
	"fmt"
	"strings"

	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/failure"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/records"
)

type Kind string

const (
	KindPhoto    Kind = "Photo"
	KindVideo    Kind = "Video"
	KindDocument Kind = "Document"
	KindLink     Kind = "Link"
)

// MaxFiles caps the number of evidence files attached to one activity.
const MaxFiles = 5

var extensionKinds = map[string]Kind{
	"jpg": KindPhoto, "jpeg": KindPhoto, "png": KindPhoto, "gif": KindPhoto,
	"webp": KindPhoto, "bmp": KindPhoto, "svg": KindPhoto, "heic": KindPhoto,

	"mp4": KindVideo, "mov": KindVideo, "avi": KindVideo, "mkv": KindVideo,
	"webm": KindVideo, "wmv": KindVideo, "m4v": KindVideo,

	"pdf": KindDocument, "doc": KindDocument, "docx": KindDocument, "xls": KindDocument,
	"xlsx": KindDocument, "ppt": KindDocument, "pptx": KindDocument, "txt": KindDocument,
	"csv": KindDocument, "odt": KindDocument,
}

type Evidence struct {
	ID          string `json:"id"`
	ActivityID  int64  `json:"activity_id"`
	Kind        Kind   `json:"kind"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// KindOf classifies url by the text after its last '.'. Unrecognized extensions,
// including URLs without a dot, are links.
func KindOf(url string) Kind {
	dot := strings.LastIndex(url, ".")
	if dot < 0 {
		return KindLink
	}
	if kind, ok := extensionKinds[strings.ToLower(url[dot+1:])]; ok {
		return kind
	}
	return KindLink
}

// Extract returns one item per non-empty URL segment, in stored order. The composite
// id is "{activityID}-{index}" with a 0-based index over the kept segments.
func Extract(a records.Activity) []Evidence {
	out := []Evidence{}
	label := string(a.Type)
	if label == "" {
		label = "Activity"
	}
	for _, segment := range strings.Split(a.EvidenceURLs, ",") {
		url := strings.TrimSpace(segment)
		if url == "" {
			continue
		}
		index := len(out)
		out = append(out, Evidence{
			ID:          fmt.Sprintf("%d-%d", a.ID, index),
			ActivityID:  a.ID,
			Kind:        KindOf(url),
			URL:         url,
			Description: fmt.Sprintf("%s evidence %d", label, index+1),
		})
	}
	return out
}

// Gallery concatenates the evidence of every activity, keeping activity order.
func Gallery(activities []records.Activity) []Evidence {
	out := []Evidence{}
	for _, a := range activities {
		out = append(out, Extract(a)...)
	}
	return out
}

// FilterKind keeps items of the given kind. An empty kind or "all" keeps everything.
func FilterKind(items []Evidence, kind string) []Evidence {
	out := make([]Evidence, 0, len(items))
	for _, item := range items {
		if kind == "" || strings.EqualFold(kind, "all") || strings.EqualFold(kind, string(item.Kind)) {
			out = append(out, item)
		}
	}
	return out
}

// CheckUploads rejects an upload batch larger than MaxFiles before it is sent.
func CheckUploads(count int) error {
	if count > MaxFiles {
		return failure.Precondition("too_many_files", fmt.Sprintf("at most %d evidence files can be attached", MaxFiles))
	}
	return nil
}
