//go:build basic || database

package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedBinaryPath holds the path to a shared path2prep binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

const profilesFixture = `[
  {"user": "asha", "major": "Computer Science", "target_country": "Germany", "degree_level": "Master's", "gpa": 3.7, "interests": "machine learning"},
  {"user": "ravi", "major": "Nursing", "target_country": "Canada", "degree_level": "Bachelor's", "interests": "healthcare"}
]`

const careersFixture = `[
  {"name": "Data Scientist", "description": "Builds machine learning models"},
  {"name": "Nurse", "description": "Cares for patients"},
  {"name": "Architect", "description": "Designs buildings"}
]`

const scholarshipsFixture = `[
  {"title": "DAAD", "description": "Masters study in Germany for computer science students", "country": "Germany"},
  {"title": "Nursing Grant", "description": "Support for healthcare and nursing students", "country": "Canada"},
  {"title": "Closed Award", "description": "Computer science in Germany", "is_active": false}
]`

// fixtures holds the paths of the data files used by a test.
type fixtures struct {
	Dir          string
	Profiles     string
	Careers      string
	Scholarships string
}

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getBinary returns the path to the path2prep binary, building it once if needed.
func getBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "path2prep-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binaryPath := filepath.Join(tempDir, "path2prep")
		buildCmd := exec.Command("go", "build", "-o", binaryPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build path2prep: %v", err))
		}

		sharedBinaryPath = binaryPath
	})

	return sharedBinaryPath
}

// writeFixtures writes the profile and pool files into a fresh directory.
func writeFixtures(t *testing.T) fixtures {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}
	return fixtures{
		Dir:          dir,
		Profiles:     write("profiles.json", profilesFixture),
		Careers:      write("careers.json", careersFixture),
		Scholarships: write("scholarships.json", scholarshipsFixture),
	}
}

// dataArgs returns the flags pointing at the fixtures and an empty models directory.
func (f fixtures) dataArgs() []string {
	return []string{
		"--profile", f.Profiles,
		"--careers", f.Careers,
		"--scholarships", f.Scholarships,
		"--models-dir", f.Dir,
	}
}

// runCommand runs the binary from dir with HOME pointed at dir and returns stdout.
func runCommand(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getBinary(), args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "HOME="+dir)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
		return stdout.String(), err
	}
	return stdout.String(), nil
}
