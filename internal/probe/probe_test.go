package probe

import (
	"testing"
)

// Realistic ffprobe -show_format output for an MP4 segment.
const sampleMP4 = `{
  "format": {
    "filename": "join1__intro.mp4",
    "nb_streams": 2,
    "nb_programs": 0,
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2",
    "format_long_name": "QuickTime / MOV",
    "start_time": "0.000000",
    "duration": "734.592000",
    "size": "104857600",
    "bit_rate": "1141573",
    "probe_score": 100,
    "tags": {
      "major_brand": "isom",
      "minor_version": "512",
      "compatible_brands": "isomiso2avc1mp41",
      "encoder": "Lavf60.16.100"
    }
  }
}`

// A Matroska file; ffprobe reports the same format section shape.
const sampleMKV = `{
  "format": {
    "filename": "/media/clips/part2.mkv",
    "nb_streams": 1,
    "format_name": "matroska,webm",
    "format_long_name": "Matroska / WebM",
    "duration": "12.500000",
    "size": "350000",
    "bit_rate": "224000"
  }
}`

// Broken or headerless input: format section present but no duration.
const sampleNoDuration = `{
  "format": {
    "filename": "broken.mp4",
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2"
  }
}`

func TestParseJSON_MP4(t *testing.T) {
	fi, err := ParseJSON([]byte(sampleMP4))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}

	if fi.Filename != "join1__intro.mp4" {
		t.Errorf("filename: got %q", fi.Filename)
	}
	if fi.FormatName != "mov,mp4,m4a,3gp,3g2,mj2" {
		t.Errorf("format_name: got %q", fi.FormatName)
	}
	if fi.Duration != 734.592 {
		t.Errorf("duration: got %f, want 734.592", fi.Duration)
	}
	if fi.Size != 104857600 {
		t.Errorf("size: got %d", fi.Size)
	}
	if fi.BitRate != 1141573 {
		t.Errorf("bit_rate: got %d", fi.BitRate)
	}
}

func TestParseJSON_MKV(t *testing.T) {
	fi, err := ParseJSON([]byte(sampleMKV))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if fi.Duration != 12.5 {
		t.Errorf("duration: got %f, want 12.5", fi.Duration)
	}
	if fi.FormatLongName != "Matroska / WebM" {
		t.Errorf("format_long_name: got %q", fi.FormatLongName)
	}
}

func TestParseJSON_MissingDuration(t *testing.T) {
	fi, err := ParseJSON([]byte(sampleNoDuration))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if fi.Duration != 0 {
		t.Errorf("duration: got %f, want 0 for missing field", fi.Duration)
	}
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	_, err := ParseJSON([]byte(`{invalid`))
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestParseJSON_EmptyDocument(t *testing.T) {
	fi, err := ParseJSON([]byte(`{}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if fi.Duration != 0 || fi.Size != 0 {
		t.Errorf("empty document should yield zero values, got %+v", fi)
	}
}
