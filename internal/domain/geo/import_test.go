package geo

import (
	"math"
	"testing"
)

func TestParseDelimitedCSV(t *testing.T) {
	text := "DXB,Dubai International,25.2532,55.3657\nCAI,Cairo International,30.1219,31.4056\n"
	records := ParseDelimited(text)
	if len(records) != 2 {
		t.Fatalf("parsed %d records, want 2", len(records))
	}
	if records[0].Code != "DXB" || records[0].Latitude != 25.2532 {
		t.Fatalf("first record = %+v", records[0])
	}
	if records[1].Name != "Cairo International" || records[1].Longitude != 31.4056 {
		t.Fatalf("second record = %+v", records[1])
	}
}

func TestParseDelimitedTabs(t *testing.T) {
	text := "DXB\tDubai International\t25.2532\t55.3657"
	records := ParseDelimited(text)
	if len(records) != 1 {
		t.Fatalf("parsed %d records, want 1", len(records))
	}
	if records[0].Name != "Dubai International" {
		t.Fatalf("record = %+v", records[0])
	}
}

func TestParseDelimitedSkipsHeader(t *testing.T) {
	text := "code,name,latitude,longitude\nDXB,Dubai International,25.2532,55.3657\n"
	records := ParseDelimited(text)
	if len(records) != 1 {
		t.Fatalf("parsed %d records, want 1", len(records))
	}
}

func TestParseDelimitedMissingCoordinateFailsValidation(t *testing.T) {
	text := "DXB,Dubai International,25.2532,55.3657\nBAD,No latitude,,31.4\n"
	records := ParseDelimited(text)
	if len(records) != 2 {
		t.Fatalf("parsed %d records, want 2", len(records))
	}
	if !math.IsNaN(records[1].Latitude) {
		t.Fatalf("missing latitude should parse as NaN, got %v", records[1].Latitude)
	}

	// End-to-end: the malformed row is dropped by import, the valid row lands.
	set := NewAirportSet()
	result, err := set.Import(records)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Accepted != 1 || result.Dropped != 1 {
		t.Fatalf("result = %+v, want 1 accepted / 1 dropped", result)
	}
}

func TestParseDelimitedIgnoresBlankLines(t *testing.T) {
	text := "\nDXB,Dubai,25.2,55.3\n\n"
	records := ParseDelimited(text)
	if len(records) != 1 {
		t.Fatalf("parsed %d records, want 1", len(records))
	}
}
