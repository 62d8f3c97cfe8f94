// Command migrate-legacy rewrites posts whose content predates the
// block model. Legacy plain text decodes to a single paragraph block;
// re-encoding persists it in the block format so the fallback path is
// no longer needed for that post.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/inkwell-blog/inkwell/internal/codec"
	"github.com/inkwell-blog/inkwell/internal/db"
	"github.com/inkwell-blog/inkwell/internal/logger"
	"github.com/inkwell-blog/inkwell/internal/model"
	"github.com/inkwell-blog/inkwell/internal/repository"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	skipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Report what would change without writing")
	flag.Parse()

	l := logger.New("warn")
	db.SetLogger(l)
	repository.SetLogger(l)

	database := db.NewSQLite()
	if err := database.InitDB(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("Failed to initialize database: "+err.Error()))
		os.Exit(1)
	}

	repo := repository.NewDBPostRepository(database)
	posts, _, err := repo.GetPosts()
	if err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("Failed to load posts: "+err.Error()))
		os.Exit(1)
	}

	var migrated, skipped, failed int
	for i := range posts {
		post := &posts[i]
		switch migratePost(repo, post, *dryRun) {
		case migrateOK:
			migrated++
			fmt.Println(okStyle.Render("migrated"), post.ID, post.Title)
		case migrateSkip:
			skipped++
			fmt.Println(skipStyle.Render("ok      "), post.ID, post.Title)
		case migrateErr:
			failed++
			fmt.Println(errStyle.Render("failed  "), post.ID, post.Title)
		}
	}

	fmt.Printf("\n%d migrated, %d already block-format, %d failed\n", migrated, skipped, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

type migrateResult int

const (
	migrateOK migrateResult = iota
	migrateSkip
	migrateErr
)

func migratePost(repo repository.PostRepository, post *model.Post, dryRun bool) migrateResult {
	doc := codec.Decode(post.Content)
	encoded, err := codec.Encode(doc)
	if err != nil {
		return migrateErr
	}

	// Content that already round-trips unchanged is in block format.
	if bytes.Equal(bytes.TrimSpace(post.Content), encoded) {
		return migrateSkip
	}

	if dryRun {
		return migrateOK
	}

	post.Content = encoded
	if err := repo.SetPostContent(post); err != nil {
		return migrateErr
	}
	return migrateOK
}
