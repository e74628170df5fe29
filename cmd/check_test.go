package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func runCheck(t *testing.T, locations, users string) (string, error) {
	t.Helper()
	t.Setenv("CI", "true")
	dir := t.TempDir()
	locPath := filepath.Join(dir, "locations.json")
	userPath := filepath.Join(dir, "users.json")
	cfgPath := filepath.Join(dir, "campusmap.yml")
	writeFile(t, locPath, locations)
	writeFile(t, userPath, users)
	writeFile(t, cfgPath, "data:\n  locations: "+locPath+"\n  users: "+userPath+"\n")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--config", cfgPath, "check"})
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCheckCommand(t *testing.T) {
	out, err := runCheck(t,
		`[{"NAME":"Library","CATEGORY":"Academic","LATITUDE":27.8,"LONGITUDE":75.03,"CONTACTS":"NIL","EMAIL":"NIL"}]`,
		`[{"email":"john.cs@modyuniversity.ac.in","password":"x"}]`)
	if err != nil {
		t.Fatalf("check failed: %v\n%s", err, out)
	}
	for _, want := range []string{"Locations:  1 (1 categories)", "Academic", "Users:      1 (0 bcrypt, 1 plaintext)", "All records look good."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCheckCommandReportsProblems(t *testing.T) {
	out, err := runCheck(t,
		`[{"NAME":"Library","CATEGORY":"","LATITUDE":27.8,"LONGITUDE":75.03},{"NAME":"library","CATEGORY":"Academic","LATITUDE":27.8,"LONGITUDE":75.03}]`,
		`[{"email":"someone@gmail.com","password":""}]`)
	if err == nil {
		t.Fatalf("expected check to fail:\n%s", out)
	}
	for _, want := range []string{"missing category", "duplicate name", "not a university address", "empty password"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
