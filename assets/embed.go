package assets

import (
	"bufio"
	"embed"
	"io/fs"
)

//go:embed wordlist.txt
var wordsFS embed.FS

//go:embed sql/*.sql
var migrationsFS embed.FS

func readLines(name string) ([]string, error) {
	f, err := wordsFS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	return out, sc.Err()
}

// WordList returns the raw lines of the default board corpus.
func WordList() ([]string, error) {
	return readLines("wordlist.txt")
}

// Migrations exposes the schema scripts rooted at sql/.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationsFS, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}
