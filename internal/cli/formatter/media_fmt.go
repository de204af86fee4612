package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/scormbuilder/internal/domain"
)

// FormatMediaList renders stored media blobs grouped by page order.
func FormatMediaList(blobs []domain.BlobInfo, pageOrder []string) string {
	if len(blobs) == 0 {
		return Dim("No media stored.")
	}
	rank := make(map[string]int, len(pageOrder))
	for i, id := range pageOrder {
		rank[id] = i
	}
	byPage := make(map[string][]domain.BlobInfo)
	var orphaned []domain.BlobInfo
	for _, blob := range blobs {
		if _, ok := rank[blob.PageID]; !ok {
			orphaned = append(orphaned, blob)
			continue
		}
		byPage[blob.PageID] = append(byPage[blob.PageID], blob)
	}

	headers := []string{"PAGE", "ID", "TYPE", "FILE", "SIZE", "ADDED"}
	var rows [][]string
	appendRows := func(page string, list []domain.BlobInfo) {
		for _, blob := range list {
			rows = append(rows, []string{
				page,
				TruncID(blob.ID),
				MediaTypeBadge(blob.Type),
				blob.FileName,
				Size(blob.SizeBytes),
				Dim(HumanTimestamp(blob.CreatedAt)),
			})
		}
	}
	for _, id := range pageOrder {
		appendRows(id, byPage[id])
	}
	appendRows(Dim("(unattached)"), orphaned)

	var total int64
	for _, blob := range blobs {
		total += blob.SizeBytes
	}
	var b strings.Builder
	b.WriteString(RenderTable(headers, rows))
	b.WriteString(Dim(fmt.Sprintf("%d files, %s", len(blobs), Size(total))) + "\n")
	return b.String()
}
