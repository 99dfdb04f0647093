package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/meetsched/internal/testutil"
)

// testCLI runs commands against one temporary database with a fixed clock
// and UID sequence.
type testCLI struct {
	t     *testing.T
	db    string
	clock *testutil.FixedClock
	uids  *testutil.SequenceGenerator
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	return &testCLI{
		t:     t,
		db:    filepath.Join(t.TempDir(), "test.db"),
		clock: testutil.NewFixedClock(testutil.Epoch),
		uids:  testutil.NewSequenceGenerator(),
	}
}

// run executes args and returns stdout and the command error.
func (c *testCLI) run(args ...string) (string, error) {
	c.t.Helper()
	opts := &RootOptions{Now: c.clock.Now, UIDs: c.uids}
	cmd := newRootCommand(opts)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append([]string{"--db", c.db}, args...))

	err := cmd.Execute()
	return stdout.String(), err
}

// mustRun executes args and fails the test on error.
func (c *testCLI) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	if err != nil {
		c.t.Fatalf("%v failed: %v\noutput:\n%s", args, err, out)
	}
	return out
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}
