package sheet

import (
	"fmt"
	"strings"
)

// Column names the catalog spreadsheet is expected to carry. Columns
// beyond these are informational and ignored.
const (
	ColChannelName        = "Channel Name"
	ColChannelSlug        = "Channel Slug"
	ColChannelDescription = "Channel Description"
	ColChannelCategory    = "Channel Category"
	ColSectionName        = "Section Name"
	ColSectionSlug        = "Section Slug"
	ColSectionOrder       = "Section Order"
	ColEpisodeNumber      = "Episode Number"
	ColEpisodeTitle       = "Episode Title"
	ColEpisodeSlug        = "Episode Slug"
	ColEpisodeDescription = "Episode Description"
	ColFileName           = "File Name"
	ColRequiredTierLevel  = "Required Tier Level"
	ColIsFirstEpisode     = "Is First Episode"
	ColSeasonNumber       = "Season Number"
	ColTags               = "Tags"
)

// Record is one data row, keyed by header column name. Values are
// trimmed; columns missing from a short row read as "".
type Record map[string]string

// Table holds the parsed spreadsheet: the header columns in file order
// and the data records in file order.
type Table struct {
	Columns []string
	Records []Record
}

// Parse scans raw delimited text into a Table. The scan is
// character-by-character: a comma splits fields only outside quotes, a
// doubled quote inside a quoted field unescapes to a single quote, and a
// newline ends a record only outside quotes. A quote that is never
// closed absorbs the remainder of the content into the open field.
// Blank lines and rows with an empty Channel Name column are dropped.
func Parse(raw string) (*Table, error) {
	rows := scanRows(raw)

	header := -1
	for i, row := range rows {
		if !blankRow(row) {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	table := &Table{Columns: rows[header]}

	for _, row := range rows[header+1:] {
		if blankRow(row) {
			continue
		}
		record := make(Record, len(table.Columns))
		for i, col := range table.Columns {
			if i < len(row) {
				record[col] = row[i]
			} else {
				record[col] = ""
			}
		}
		if record[ColChannelName] == "" {
			continue
		}
		table.Records = append(table.Records, record)
	}

	return table, nil
}

func scanRows(raw string) [][]string {
	var rows [][]string
	var fields []string
	var field strings.Builder
	inQuotes := false

	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				field.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(field.String()))
			field.Reset()
		case c == '\n' && !inQuotes:
			fields = append(fields, strings.TrimSpace(field.String()))
			field.Reset()
			rows = append(rows, fields)
			fields = nil
		case c == '\r' && !inQuotes:
			// dropped; CRLF line endings are handled by the newline case
		default:
			field.WriteRune(c)
		}
	}

	fields = append(fields, strings.TrimSpace(field.String()))
	rows = append(rows, fields)
	return rows
}

func blankRow(row []string) bool {
	for _, f := range row {
		if f != "" {
			return false
		}
	}
	return true
}
