/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/taskdeck/apiserver/internal/client"
	"github.com/taskdeck/apiserver/types"
)

var apiBase string

// tasksCmd represents the tasks command group, a terminal client for a
// running taskdeck server.
var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Interact with a running taskdeck server",
}

var tasksLoginCmd = &cobra.Command{
	Use:   "login <email> <password>",
	Short: "Log in and store the session token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := client.New(apiBase)
		if err != nil {
			return err
		}
		resp, err := cli.Login(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if err := saveSession(session{Token: resp.Token, User: resp.User}); err != nil {
			return err
		}
		fmt.Printf("logged in as %s <%s>\n", resp.User.Name, resp.User.Email)
		return nil
	},
}

var tasksLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return clearSession()
	},
}

var tasksRegisterCmd = &cobra.Command{
	Use:   "register <name> <email> <password>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := client.New(apiBase)
		if err != nil {
			return err
		}
		user, err := cli.Register(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("registered %s <%s>\n", user.Name, user.Email)
		return nil
	},
}

var (
	listSearch   string
	listPriority string
	listDate     string
	listDone     bool
)

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, optionally filtered",
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := sessionClient()
		if err != nil {
			return err
		}
		tasks, err := cli.Tasks(cmd.Context())
		if err != nil {
			return err
		}

		state := client.NewState().
			WithTasks(tasks).
			WithSearch(listSearch).
			WithPriority(types.Priority(listPriority))
		if listDate != "" {
			day, err := time.ParseInLocation("2006-01-02", listDate, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --date, want YYYY-MM-DD: %w", err)
			}
			state = state.WithDate(day)
		}

		visible := state.Filtered()
		if listDone {
			visible = state.Completed()
		}
		if len(visible) == 0 {
			fmt.Println("no tasks")
			return nil
		}
		for _, task := range visible {
			printTask(task)
		}
		return nil
	},
}

var (
	addDescription string
	addHigh        bool
)

var tasksAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := sessionClient()
		if err != nil {
			return err
		}
		draft := client.NewTask{
			Title:       args[0],
			Description: addDescription,
		}
		if addHigh {
			draft.Priority = types.PriorityHigh
		}
		task, err := cli.CreateTask(cmd.Context(), draft)
		if err != nil {
			return err
		}
		printTask(task)
		return nil
	},
}

var tasksDoneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := sessionClient()
		if err != nil {
			return err
		}
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task id: %w", err)
		}
		completed := true
		task, err := cli.UpdateTask(cmd.Context(), id, types.TaskPatch{Completed: &completed})
		if err != nil {
			return err
		}
		printTask(task)
		return nil
	},
}

var tasksRmCmd = &cobra.Command{
	Use:   "rm <task-id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := sessionClient()
		if err != nil {
			return err
		}
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task id: %w", err)
		}
		return cli.DeleteTask(cmd.Context(), id)
	},
}

func printTask(task types.Task) {
	mark := " "
	if task.Completed {
		mark = "x"
	}
	fmt.Printf("[%s] %s  %-4s  %s  %s\n",
		mark,
		task.ID,
		task.Priority.OrLow(),
		task.CreatedAt.Local().Format("2006-01-02"),
		task.Title,
	)
}

// session mirrors what the browser client keeps in local storage: the
// bearer token and the last-known profile.
type session struct {
	Token string     `json:"token"`
	User  types.User `json:"user"`
}

func sessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskdeck", "session.json"), nil
}

func loadSession() (session, error) {
	path, err := sessionPath()
	if err != nil {
		return session{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return session{}, errors.New("not logged in, run: taskdeck tasks login")
		}
		return session{}, err
	}
	var s session
	if err := json.Unmarshal(data, &s); err != nil {
		return session{}, err
	}
	return s, nil
}

func saveSession(s session) error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func clearSession() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func sessionClient() (*client.Client, error) {
	sess, err := loadSession()
	if err != nil {
		return nil, err
	}
	return client.New(apiBase, client.WithToken(sess.Token))
}

func init() {
	rootCmd.AddCommand(tasksCmd)
	tasksCmd.PersistentFlags().StringVar(&apiBase, "api", "http://localhost:8080", "base URL of the taskdeck server")

	tasksListCmd.Flags().StringVar(&listSearch, "search", "", "substring match on title or description")
	tasksListCmd.Flags().StringVar(&listPriority, "priority", "All", "filter by priority (High, Low or All)")
	tasksListCmd.Flags().StringVar(&listDate, "date", "", "filter by creation day (YYYY-MM-DD)")
	tasksListCmd.Flags().BoolVar(&listDone, "done", false, "show only completed tasks")

	tasksAddCmd.Flags().StringVar(&addDescription, "desc", "", "task description")
	tasksAddCmd.Flags().BoolVar(&addHigh, "high", false, "create with High priority")

	tasksCmd.AddCommand(tasksRegisterCmd)
	tasksCmd.AddCommand(tasksLoginCmd)
	tasksCmd.AddCommand(tasksLogoutCmd)
	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksAddCmd)
	tasksCmd.AddCommand(tasksDoneCmd)
	tasksCmd.AddCommand(tasksRmCmd)
}
