package xaml_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lestrrat-go/xaml"
	"github.com/lestrrat-go/xaml/s11n"
	"github.com/lestrrat-go/xaml/schema"
	"github.com/stretchr/testify/require"
)

// TestXamlLintGolden compares xamllint output against golden files.
//
// Every .xaml file in testdata/ with a corresponding .dump file is parsed
// against testdata/schema.yaml, and the node stream dump must match the
// .dump file byte for byte. To create a golden file:
//
//	xamllint --schema testdata/schema.yaml testdata/example.xaml > testdata/example.dump
//
// Environment variable XAML_LINT_TEST_FILES can be set to test only specific files:
//
//	XAML_LINT_TEST_FILES=page.xaml go test -run TestXamlLintGolden
func TestXamlLintGolden(t *testing.T) {
	only := map[string]struct{}{}
	if v := os.Getenv("XAML_LINT_TEST_FILES"); v != "" {
		for _, f := range strings.Split(v, ",") {
			only[strings.TrimSpace(f)] = struct{}{}
		}
	}

	const dir = "testdata"
	sc, err := schema.LoadFile(filepath.Join(dir, "schema.yaml"))
	require.NoError(t, err, "schema.LoadFile should succeed")

	files, err := os.ReadDir(dir)
	require.NoError(t, err, "os.ReadDir should succeed")

	var tested int
	for _, fi := range files {
		if fi.IsDir() || !strings.HasSuffix(fi.Name(), ".xaml") {
			continue
		}
		if len(only) > 0 {
			if _, ok := only[fi.Name()]; !ok {
				continue
			}
		}

		fn := filepath.Join(dir, fi.Name())
		goldenfn := strings.TrimSuffix(fn, ".xaml") + ".dump"
		if _, err := os.Stat(goldenfn); err != nil {
			t.Logf("%s does not exist, skipping lint test...", goldenfn)
			continue
		}

		t.Run(fi.Name(), func(t *testing.T) {
			golden, err := os.ReadFile(goldenfn)
			require.NoError(t, err, "os.ReadFile should succeed for golden file")

			input, err := os.ReadFile(fn)
			require.NoError(t, err, "os.ReadFile should succeed for input file")

			// Mimic what xamllint does internally
			ctx := context.Background()
			r, err := xaml.NewTextReader(ctx, sc, input)
			require.NoError(t, err, "xaml.NewTextReader should succeed for %s", fn)
			defer r.Close()

			var output bytes.Buffer
			require.NoError(t, xaml.Transform(ctx, r, s11n.NewDumper(&output)), "xaml.Transform should succeed for %s", fn)

			actual := output.String()
			expected := string(golden)
			if expected != actual {
				errfn := fn + ".dump.err"
				if err := os.WriteFile(errfn, []byte(actual), 0600); err != nil {
					t.Logf("Failed to save output: %s", err)
				} else {
					t.Logf("Actual output saved to %s", errfn)
				}
			}
			require.Equal(t, expected, actual, "xamllint output should match golden file for %s", fn)
		})
		tested++
	}
	if len(only) == 0 {
		require.NotZero(t, tested, "at least one golden file should be tested")
	}
}

func BenchmarkParse(b *testing.B) {
	sc, err := schema.LoadFile(filepath.Join("testdata", "schema.yaml"))
	require.NoError(b, err)
	src, err := os.ReadFile(filepath.Join("testdata", "page.xaml"))
	require.NoError(b, err)

	ctx := context.Background()
	b.ReportAllocs()
	for b.Loop() {
		if _, err := xaml.Parse(ctx, sc, src); err != nil {
			b.Fatal(err)
		}
	}
}
