// studyhubctl is an operator REPL for inspecting the on-disk state of a
// studyhub deployment without going through the HTTP server.
//
// Commands:
//
//	users                    List registered accounts
//	show <email>             Print a user's document as JSON
//	summary <email>          Print per-section counts for a user
//	tags <email>             Print the tag union across a user's notes
//	help                     Show this help
//	exit / quit / q          Exit
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"studyhub/internal/accounts"
	"studyhub/internal/document"
	"studyhub/internal/notes"
	"studyhub/internal/store"
	"studyhub/internal/userkey"
)

func main() {
	err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "studyhubctl:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := flag.NewFlagSet("studyhubctl", flag.ContinueOnError)

	dataDir := flags.String("data-dir", "data/users", "data directory")
	usersFile := flags.String("users-file", "users.json", "users file")

	err := flags.Parse(args)
	if err != nil {
		return err
	}

	st, err := store.New(*dataDir)
	if err != nil {
		return err
	}

	repl := &repl{
		store:    st,
		registry: accounts.NewRegistry(*usersFile),
	}

	return repl.loop()
}

type repl struct {
	store    *store.Store
	registry *accounts.Registry
	liner    *liner.State
}

var commands = []string{"users", "show", "summary", "tags", "help", "exit", "quit", "q"} //nolint:gochecknoglobals // package-level constant

func (r *repl) loop() error {
	r.liner = liner.NewLiner()
	defer func() { _ = r.liner.Close() }()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(func(line string) []string {
		var matches []string

		for _, c := range commands {
			if strings.HasPrefix(c, strings.ToLower(line)) {
				matches = append(matches, c)
			}
		}

		return matches
	})

	fmt.Println("studyhubctl - type 'help' for available commands.")

	for {
		line, err := r.liner.Prompt("studyhub> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println()

				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		if r.dispatch(line) {
			return nil
		}
	}
}

// dispatch runs one command line. It returns true when the REPL should
// exit.
func (r *repl) dispatch(line string) bool {
	fields := strings.Fields(line)
	cmd, rest := fields[0], fields[1:]

	switch cmd {
	case "exit", "quit", "q":
		return true
	case "help":
		fmt.Println("users | show <email> | summary <email> | tags <email> | exit")
	case "users":
		r.cmdUsers()
	case "show":
		r.withDocument(rest, r.cmdShow)
	case "summary":
		r.withDocument(rest, r.cmdSummary)
	case "tags":
		r.withDocument(rest, r.cmdTags)
	default:
		fmt.Printf("unknown command %q, try 'help'\n", cmd)
	}

	return false
}

func (r *repl) cmdUsers() {
	users := r.registry.Accounts()
	if len(users) == 0 {
		fmt.Println("no registered users")

		return
	}

	for _, u := range users {
		fmt.Printf("%s\t%s\n", u.Email, u.Name)
	}
}

// withDocument loads the document for the email argument and hands it to
// the command. Load errors (including corrupt files) are printed, not
// fatal: the operator is here precisely to look at broken state.
func (r *repl) withDocument(args []string, cmd func(*document.UserDocument)) {
	if len(args) != 1 {
		fmt.Println("usage: <command> <email>")

		return
	}

	doc, err := r.store.Load(userkey.Resolve(args[0]))
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	cmd(doc)
}

func (r *repl) cmdShow(doc *document.UserDocument) {
	data, err := document.Encode(doc)
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	fmt.Println(string(data))
}

func (r *repl) cmdSummary(doc *document.UserDocument) {
	fmt.Printf("todos:      %d\n", len(doc.Todos))
	fmt.Printf("notes:      %d\n", len(doc.Notes))
	fmt.Printf("habits:     %d\n", len(doc.Habits))
	fmt.Printf("subjects:   %d\n", len(doc.Attendance))
	fmt.Printf("documents:  %d\n", len(doc.Documents))
	fmt.Printf("budget:     total=%.2f remaining=%.2f expenses=%d\n",
		doc.Budget.Total, doc.Budget.Remaining, len(doc.Budget.Expenses))
}

func (r *repl) cmdTags(doc *document.UserDocument) {
	tags := notes.AllTags(doc)
	if len(tags) == 0 {
		fmt.Println("no tags")

		return
	}

	fmt.Println(strings.Join(tags, ", "))
}
