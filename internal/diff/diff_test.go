package diff

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprite-ai/staticreview/internal/file"
)

const sampleDiff = `diff --git a/hello.go b/hello.go
new file mode 100644
index 0000000..e69de29
--- /dev/null
+++ b/hello.go
@@ -0,0 +1,7 @@
+package main
+
+import "fmt"
+
+func main() {
+	fmt.Println("hello")
+}
diff --git a/readme.md b/readme.md
index abc1234..def5678 100644
--- a/readme.md
+++ b/readme.md
@@ -1,3 +1,4 @@
 # Project
 
-Old description
+New description
+Added line
diff --git a/old.txt b/old.txt
deleted file mode 100644
index abc1234..0000000
--- a/old.txt
+++ /dev/null
@@ -1 +0,0 @@
-gone
diff --git a/src/a.go b/src/b.go
similarity index 100%
rename from src/a.go
rename to src/b.go
diff --git a/tpl.go b/tpl_copy.go
similarity index 100%
copy from tpl.go
copy to tpl_copy.go
`

func TestParse(t *testing.T) {
	changes, err := Parse(sampleDiff)
	require.NoError(t, err)
	require.Len(t, changes, 5)

	assert.Equal(t, file.StatusAdded, changes[0].Status)
	assert.Equal(t, "hello.go", changes[0].Path)
	assert.Equal(t, 7, changes[0].Added)

	assert.Equal(t, file.StatusModified, changes[1].Status)
	assert.Equal(t, "readme.md", changes[1].Name())
	assert.Equal(t, 2, changes[1].Added)
	assert.Equal(t, 1, changes[1].Deleted)
	require.Len(t, changes[1].Fragments, 1)

	assert.Equal(t, file.StatusDeleted, changes[2].Status)
	assert.Equal(t, "old.txt", changes[2].Path)

	assert.Equal(t, file.StatusRenamed, changes[3].Status)
	assert.Equal(t, "src/b.go", changes[3].Path)
	assert.Equal(t, "src/a.go", changes[3].PriorPath)
	assert.Equal(t, "src/a.go → src/b.go", changes[3].Name())

	assert.Equal(t, file.StatusCopied, changes[4].Status)
	assert.Equal(t, "tpl_copy.go", changes[4].Path)
	assert.Equal(t, "tpl.go", changes[4].PriorPath)

	files, added, deleted := Stats(changes)
	assert.Equal(t, 5, files)
	assert.Equal(t, 9, added)
	assert.Equal(t, 2, deleted)
}

func TestParseEmpty(t *testing.T) {
	changes, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestGitDiffOutsideRepo(t *testing.T) {
	_, err := GitDiffCached(context.Background(), t.TempDir())
	assert.Error(t, err)
}
