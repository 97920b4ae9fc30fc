package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/frahmantamala/user-management/internal/user"
	userPostgres "github.com/frahmantamala/user-management/internal/user/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Inspect and administer user accounts",
}

var (
	listStatus string
	listLimit  int

	statusEmail string
	statusValue string
)

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users with their roles",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApplication()
		if err != nil {
			log.Fatalf("failed to init: %v", err)
		}
		defer app.Close()

		sqlDB, err := app.DB.DB()
		if err != nil {
			log.Fatalf("underlying sql.DB: %v", err)
		}

		report := userPostgres.NewReportRepository(sqlx.NewDb(sqlDB, sqlxDriverName(app.Config.Database.Driver)))
		list, err := report.List(cmd.Context(), listStatus, listLimit)
		if err != nil {
			log.Fatalf("list: %v", err)
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tSTATUS\tROLES\tCREATED")
		for _, u := range list {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
				u.ID, u.Name, u.Email, u.Status, strings.Join(u.Roles, ","), u.CreatedAt.Format("2006-01-02 15:04"))
		}
		_ = tw.Flush()
	},
}

var usersStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Activate, deactivate or soft delete a user",
	Long:  `Change a user's status. Leaving the active state revokes every token of the user.`,
	Run: func(cmd *cobra.Command, args []string) {
		app, err := newApplication()
		if err != nil {
			log.Fatalf("failed to init: %v", err)
		}
		defer app.Close()

		u, err := app.Users.SetStatus(cmd.Context(), statusEmail, user.Status(statusValue))
		if err != nil {
			log.Fatalf("status: %v", err)
		}
		fmt.Printf("User %s is now %s\n", u.Email, u.Status)
	},
}

// sqlxDriverName maps the configured driver to the database/sql driver gorm registered.
func sqlxDriverName(driver string) string {
	if driver == "sqlite" {
		return "sqlite3"
	}
	return "pgx"
}

func init() {
	usersListCmd.Flags().StringVar(&listStatus, "status", "", "only users with this status")
	usersListCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of users, 0 for all")

	usersStatusCmd.Flags().StringVar(&statusEmail, "email", "", "user email")
	usersStatusCmd.Flags().StringVar(&statusValue, "status", "", "active, deactivated or deleted")
	_ = usersStatusCmd.MarkFlagRequired("email")
	_ = usersStatusCmd.MarkFlagRequired("status")

	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersStatusCmd)

	rootCmd.AddCommand(usersCmd)
}
