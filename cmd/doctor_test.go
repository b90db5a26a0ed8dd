package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDoctorHealthyRepoPasses(t *testing.T) {
	dir, _ := newCmdTestRepo(t)
	t.Chdir(dir)

	if err := runInstall(nil, nil); err != nil {
		t.Fatal(err)
	}

	if err := runDoctor(nil, nil); err != nil {
		t.Fatalf("expected healthy repo to pass, got %v", err)
	}
}

func TestDoctorMissingHooksReportsIssues(t *testing.T) {
	dir, _ := newCmdTestRepo(t)
	t.Chdir(dir)

	if err := runDoctor(nil, nil); err == nil {
		t.Fatal("expected missing hooks to fail doctor")
	}
}

func TestDoctorStashRemnantsReportsWarning(t *testing.T) {
	dir, repo := newCmdTestRepo(t)
	t.Chdir(dir)

	if err := runInstall(nil, nil); err != nil {
		t.Fatal(err)
	}

	stashDir := filepath.Join(repo.ShadowDir, "stash")
	if err := os.MkdirAll(stashDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(stashDir, "leftover"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runDoctor(nil, nil); err == nil {
		t.Fatal("expected stash remnants to fail doctor")
	}
}

func TestDoctorExplainRendersRemediation(t *testing.T) {
	dir, _ := newCmdTestRepo(t)
	t.Chdir(dir)
	doctorExplain = true
	defer func() { doctorExplain = false }()

	_ = runDoctor(nil, nil)
}

func TestDoctorHistoryWithNoEvents(t *testing.T) {
	dir, _ := newCmdTestRepo(t)
	t.Chdir(dir)

	if err := runInstall(nil, nil); err != nil {
		t.Fatal(err)
	}

	doctorHistory = true
	defer func() { doctorHistory = false }()

	if err := runDoctor(nil, nil); err != nil {
		t.Fatal(err)
	}
}

func TestRemediationHintCoversKnownMessages(t *testing.T) {
	cases := []string{
		"pre-commit hook does not exist",
		"stash has remaining files",
		"stale lockfile held by pid 123",
	}
	for _, msg := range cases {
		if remediationHint(msg) == "" {
			t.Errorf("remediationHint(%q) returned empty hint", msg)
		}
	}
}
