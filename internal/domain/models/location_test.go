package models

import "testing"

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Location
		wantErr bool
	}{
		{"empty defaults to root", "", Root(), false},
		{"root", "root", Root(), false},
		{"missions root", "missions", MissionsRoot(), false},
		{"student docs", "student-docs", StudentDocs(), false},
		{"mission with id", "mission:m-42", MissionLocation("m-42"), false},
		{"folder with id", "folder:f-1", FolderLocation("f-1"), false},
		{"mission without id", "mission:", Location{}, true},
		{"folder without id", "folder:", Location{}, true},
		{"garbage", "attic", Location{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocation(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseLocation(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLocation(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseLocation(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLocation_StringRoundTrip(t *testing.T) {
	locations := []Location{
		Root(),
		MissionsRoot(),
		StudentDocs(),
		MissionLocation("m-42"),
		FolderLocation("f-1"),
	}

	for _, loc := range locations {
		parsed, err := ParseLocation(loc.String())
		if err != nil {
			t.Errorf("ParseLocation(%q) error = %v", loc.String(), err)
			continue
		}
		if parsed != loc {
			t.Errorf("round trip changed %+v into %+v", loc, parsed)
		}
	}
}

func TestLocation_IsVirtual(t *testing.T) {
	if FolderLocation("f-1").IsVirtual() {
		t.Error("persisted folder location reported virtual")
	}
	for _, loc := range []Location{Root(), MissionsRoot(), StudentDocs(), MissionLocation("m-1")} {
		if !loc.IsVirtual() {
			t.Errorf("%s should be virtual", loc.String())
		}
	}
}
