package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pigeonworks-llc/campus-budget/internal/mockdata"
	"github.com/pigeonworks-llc/campus-budget/internal/models"
	"github.com/pigeonworks-llc/campus-budget/pkg/budget"
	"github.com/spf13/cobra"
)

var (
	noteTitle   string
	noteContent string
	noteTags    []string
	notePinned  bool
	noteRemote  bool
	noteSearch  string
	noteTag     string
	noteUnpin   bool
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes",
}

var noteAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a note",
	Long: `Add a note. Tags keep the order given.

Example:
  budget-cli note add --title "Rent" --content "Due on the 1st" --tag housing --tag monthly`,
	Args: cobra.NoArgs,
	Run:  runNoteAdd,
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, pinned first",
	Args:  cobra.NoArgs,
	Run:   runNoteList,
}

var notePinCmd = &cobra.Command{
	Use:   "pin <id>",
	Short: "Pin or unpin a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()
		pinned := !noteUnpin
		a.state.UpdateNote(args[0], budget.NotePatch{Pinned: &pinned})
		fmt.Printf("Note %s pinned=%t\n", args[0], pinned)
	},
}

var noteDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := openApp()
		defer a.Close()
		a.state.DeleteNote(args[0])
		fmt.Printf("Deleted note %s\n", args[0])
	},
}

func init() {
	noteAddCmd.Flags().StringVar(&noteTitle, "title", "", "Title (required)")
	noteAddCmd.Flags().StringVar(&noteContent, "content", "", "Body text")
	noteAddCmd.Flags().StringArrayVar(&noteTags, "tag", nil, "Tag (repeatable)")
	noteAddCmd.Flags().BoolVar(&notePinned, "pinned", false, "Pin the note")
	noteAddCmd.Flags().BoolVar(&noteRemote, "remote", false, "Create through the API instead of only locally")
	noteAddCmd.MarkFlagRequired("title")

	noteListCmd.Flags().StringVar(&noteSearch, "search", "", "Filter by title or content")
	noteListCmd.Flags().StringVar(&noteTag, "tag", "", "Only notes with this tag")

	notePinCmd.Flags().BoolVar(&noteUnpin, "unpin", false, "Unpin instead")

	noteCmd.AddCommand(noteAddCmd, noteListCmd, notePinCmd, noteDeleteCmd)
}

func runNoteAdd(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()
	a.requireLogin()

	req := models.CreateNoteRequest{Title: noteTitle, Content: noteContent, Tags: noteTags, Pinned: notePinned}

	var note budget.Note
	if noteRemote {
		created, err := a.client().CreateNote(context.Background(), req)
		exitOnError(err, "failed to create note")
		note = *created
	} else {
		note = req.Note(mockdata.NewID("note"), time.Now())
	}
	a.state.AddNote(note)

	fmt.Printf("Added note %q (%s)\n", note.Title, note.ID)
}

func runNoteList(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	notes := budget.FilterNotes(a.state.Snapshot().Notes, noteSearch, noteTag)
	if len(notes) == 0 {
		fmt.Println("No notes.")
		return
	}

	pinned, others := budget.PartitionNotes(notes)
	printNotes := func(heading string, list []budget.Note) {
		if len(list) == 0 {
			return
		}
		fmt.Printf("\n=== %s ===\n", heading)
		for _, n := range list {
			fmt.Printf("%s  %s  [%s]\n", n.CreatedAt.Local().Format("2006-01-02"), n.Title, n.ID)
			if n.Content != "" {
				fmt.Printf("    %s\n", n.Content)
			}
			if len(n.Tags) > 0 {
				fmt.Printf("    #%s\n", strings.Join(n.Tags, " #"))
			}
		}
	}
	printNotes("Pinned", pinned)
	printNotes("Notes", others)
	fmt.Println()
}
