package dateutil

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestParseDateFormat - Token conversion
// ---------------------------------------------------------------------------

func TestParseDateFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		want    string
		wantErr error
	}{
		{name: "ISO date", format: "YYYY-MM-DD", want: "2006-01-02"},
		{name: "date and minutes", format: "YYYY-MM-DD HH:mm", want: "2006-01-02 15:04"},
		{name: "date and seconds", format: "YYYY-MM-DD HH:mm:ss", want: "2006-01-02 15:04:05"},
		{name: "long month name", format: "MMMM D, YYYY", want: "January 2, 2006"},
		{name: "short month and year", format: "MMM YY", want: "Jan 06"},
		{name: "minutes are lower case", format: "mm/MM", want: "04/01"},
		{name: "bracket escapes literal", format: "YYYY-MM-DD[T]HH:mm", want: "2006-01-02T15:04"},
		{name: "brackets keep tokens literal", format: "[YYYY]-MM", want: "YYYY-01"},
		{name: "literal characters kept", format: "---", want: "---"},
		{name: "unclosed bracket", format: "[Date YYYY", wantErr: ErrInvalidDateFormat},
		{name: "empty format", format: "", wantErr: ErrInvalidDateFormat},
		{name: "too long", format: string(make([]byte, MaxDateFormatLength+1)), wantErr: ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDateFormat(tt.format)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseDateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDateFormat(%q) unexpected error: %v", tt.format, err)
			}
			if got != tt.want {
				t.Errorf("ParseDateFormat(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLayouts - Presets and defaults
// ---------------------------------------------------------------------------

func TestLayouts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		formats []string
		want    []string
		wantErr error
	}{
		{
			name:    "defaults when empty",
			formats: nil,
			want:    []string{"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02"},
		},
		{
			name:    "presets are case insensitive",
			formats: []string{"European", "long"},
			want:    []string{"02/01/2006", "January 2, 2006"},
		},
		{
			name:    "invalid format rejected",
			formats: []string{"YYYY", "[oops"},
			wantErr: ErrInvalidDateFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Layouts(tt.formats)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Layouts() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Layouts() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Layouts() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseDate - Post date values
// ---------------------------------------------------------------------------

func TestParseDate(t *testing.T) {
	t.Parallel()

	layouts, err := Layouts(nil)
	if err != nil {
		t.Fatalf("Layouts() error = %v", err)
	}
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	tests := []struct {
		name    string
		value   string
		loc     *time.Location
		want    time.Time
		wantErr error
	}{
		{
			name:  "date only",
			value: "2012-12-12",
			want:  time.Date(2012, 12, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "date and time",
			value: "2012-12-12 08:30",
			want:  time.Date(2012, 12, 12, 8, 30, 0, 0, time.UTC),
		},
		{
			name:  "seconds and surrounding spaces",
			value: "  2012-12-12 08:30:15 ",
			want:  time.Date(2012, 12, 12, 8, 30, 15, 0, time.UTC),
		},
		{
			name:  "location applied",
			value: "2012-12-12",
			loc:   paris,
			want:  time.Date(2012, 12, 12, 0, 0, 0, 0, paris),
		},
		{
			name:    "unparseable",
			value:   "yesterday",
			wantErr: ErrInvalidDate,
		},
		{
			name:    "impossible day",
			value:   "2012-02-30",
			wantErr: ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDate(tt.value, layouts, tt.loc)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseDate(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.value, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestIsAuto(t *testing.T) {
	t.Parallel()

	for value, want := range map[string]bool{
		"auto":       true,
		"AUTO":       true,
		" Auto ":     true,
		"automatic":  false,
		"2012-12-12": false,
		"":           false,
	} {
		if got := IsAuto(value); got != want {
			t.Errorf("IsAuto(%q) = %v, want %v", value, got, want)
		}
	}
}
