package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/readquest/readquest/internal/daemon"
)

func init() {
	classCmd.AddCommand(classCreateCmd)
	classCmd.AddCommand(classStudentsCmd)
	rootCmd.AddCommand(classCmd)
}

var classCmd = &cobra.Command{
	Use:   "class",
	Short: "Manage classes",
}

var classCreateCmd = &cobra.Command{
	Use:   "create [NAME]",
	Short: "Create a class and print its join code",
	Long: `Create a class with an optional name. Students join by entering
the printed code in the app.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClassCreate,
}

var classStudentsCmd = &cobra.Command{
	Use:   "students CODE",
	Short: "List students in a class",
	Args:  cobra.ExactArgs(1),
	RunE:  runClassStudents,
}

func runClassCreate(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) > 0 {
		name = strings.TrimSpace(args[0])
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	class, err := d.Roster.CreateClass(name)
	if err != nil {
		return err
	}

	fmt.Printf("Created class %q\n", class.Name)
	fmt.Printf("Join code: %s\n", class.Code)
	return nil
}

func runClassStudents(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	students, err := d.Roster.Students(args[0])
	if err != nil {
		return err
	}

	if len(students) == 0 {
		fmt.Println("No students yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NICKNAME\tLEVEL\tXP\tCOINS\tSTREAK")
	for _, s := range students {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n",
			s.Student.Nickname, s.Stats.Level, s.Stats.TotalXP, s.Stats.Coins, s.Stats.StreakDays)
	}
	return w.Flush()
}
