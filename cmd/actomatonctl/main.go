// Command actomatonctl runs the scheduler's worked scenarios end to end
// against a real clock, printing the resulting state; the login scenario
// also prints each phase as it is published.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/nextlevelbuilder/actomaton/actomaton"
	"github.com/nextlevelbuilder/actomaton/internal/demo"
	"github.com/nextlevelbuilder/actomaton/internal/integrations/chat"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "actomatonctl",
		Short: "Run the effectful scheduler's worked scenarios",
	}
	root.AddCommand(
		counterCmd(),
		loginCmd(),
		timerCmd(),
		fetchCmd(),
		delayCmd(),
		chatbotCmd(),
		watchCmd(),
	)
	return root
}

func counterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "counter",
		Short: "Inc, Inc, Inc, Dec -> count == 2",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := actomaton.NewWithoutEnvironment[demo.CounterAction](demo.CounterState{}, demo.CounterReducer())
			defer m.Close()
			for _, a := range []demo.CounterAction{demo.Inc, demo.Inc, demo.Inc, demo.Dec} {
				m.Send(a).Wait(cmd.Context())
			}
			fmt.Printf("final state: %+v\n", m.Snapshot())
			return nil
		},
	}
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Login then ForceLogout on a newest-1 session queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := actomaton.NewWithoutEnvironment[demo.LoginAction](demo.LoginState{}, demo.LoginReducer())
			defer m.Close()
			changes, unsub := m.SubscribeChanges()
			defer unsub()
			go printPhases(changes)

			m.Send(demo.LoginAction{Kind: demo.Login})
			time.Sleep(10 * time.Millisecond)
			h := m.Send(demo.LoginAction{Kind: demo.ForceLogout})
			h.Wait(cmd.Context())
			time.Sleep(50 * time.Millisecond)
			fmt.Printf("final state: %+v\n", m.Snapshot())
			return nil
		},
	}
}

func printPhases(ch <-chan demo.LoginState) {
	for s := range ch {
		fmt.Printf("phase -> %s\n", s.Phase)
	}
}

func timerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timer",
		Short: "Start a 1 tick/sec stream, stop it after ~3.3 ticks",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := actomaton.NewWithoutEnvironment[demo.TimerAction](demo.TimerState{}, demo.TimerReducer())
			defer m.Close()

			m.Send(demo.TimerAction{Kind: demo.StartTimer})
			time.Sleep(3300 * time.Millisecond)
			m.Send(demo.TimerAction{Kind: demo.StopTimer}).Wait(cmd.Context())
			fmt.Printf("final state: %+v\n", m.Snapshot())
			return nil
		},
	}
}

func fetchCmd() *cobra.Command {
	var mode string
	c := &cobra.Command{
		Use:   "fetch",
		Short: "Run the run-oldest suspend-new or discard-new scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			var names []string
			var m *actomaton.Actomaton[demo.FetchAction, demo.FetchState, struct{}]
			switch mode {
			case "suspend":
				names = []string{"Fetch1", "Fetch2"}
				m = actomaton.NewWithoutEnvironment[demo.FetchAction](demo.FetchState{}, demo.SuspendFetchReducer())
			case "discard":
				names = []string{"F1", "F2", "F3", "F4"}
				m = actomaton.NewWithoutEnvironment[demo.FetchAction](demo.FetchState{}, demo.DiscardFetchReducer())
			default:
				return fmt.Errorf("unknown --mode %q (want suspend or discard)", mode)
			}
			defer m.Close()

			start := time.Now()
			var handles []*actomaton.Handle
			for _, name := range names {
				handles = append(handles, m.Send(demo.FetchAction{Name: name}))
			}
			for _, h := range handles {
				h.Wait(cmd.Context())
			}
			fmt.Printf("elapsed: %s\n", time.Since(start).Round(10*time.Millisecond))
			fmt.Printf("completed: %v\n", m.Snapshot().Completed)
			return nil
		},
	}
	c.Flags().StringVar(&mode, "mode", "suspend", "suspend or discard")
	return c
}

func chatbotCmd() *cobra.Command {
	var token, channel, message string
	c := &cobra.Command{
		Use:   "chatbot",
		Short: "Post a message through the Slack channel collaborator",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" || channel == "" {
				return fmt.Errorf("--token and --channel are required (a Slack bot token and channel id)")
			}
			env := demo.ChatbotEnv{
				Slack:     chat.NewSlack(token, rate.Limit(1), 1),
				ChannelID: channel,
			}
			m := actomaton.New[demo.ChatbotAction](demo.ChatbotState{}, demo.ChatbotReducer(), env)
			defer m.Close()

			h := m.Send(demo.ChatbotAction{Announce: message})
			if err := h.Wait(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("final state: %+v\n", m.Snapshot())
			return nil
		},
	}
	c.Flags().StringVar(&token, "token", "", "Slack bot token")
	c.Flags().StringVar(&channel, "channel", "", "Slack channel id")
	c.Flags().StringVar(&message, "message", "hello from actomaton", "message text to post")
	return c
}

func watchCmd() *cobra.Command {
	var path string
	var duration time.Duration
	c := &cobra.Command{
		Use:   "watch",
		Short: "Watch a directory for changes for a fixed duration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				return fmt.Errorf("--path is required")
			}
			m := actomaton.NewWithoutEnvironment[demo.WatchAction](demo.WatchState{}, demo.WatchReducer())
			defer m.Close()

			m.Send(demo.WatchAction{Start: path})
			time.Sleep(duration)
			m.Close()
			m.Wait()
			fmt.Printf("changed: %v\n", m.Snapshot().Changed)
			return nil
		},
	}
	c.Flags().StringVar(&path, "path", "", "directory to watch")
	c.Flags().DurationVar(&duration, "duration", 5*time.Second, "how long to watch before stopping")
	return c
}

func delayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delay",
		Short: "Submit three effects to a RunNewest queue with a 1s constant delay",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := actomaton.NewWithoutEnvironment[demo.DelayAction](demo.DelayState{}, demo.DelayReducer())
			defer m.Close()

			start := time.Now()
			var handles []*actomaton.Handle
			for _, name := range []string{"F1", "F2", "F3"} {
				handles = append(handles, m.Send(demo.DelayAction{Name: name}))
			}
			for _, h := range handles {
				h.Wait(cmd.Context())
			}
			for name, at := range m.Snapshot().Started {
				fmt.Printf("%s started at +%s\n", name, at.Sub(start).Round(10*time.Millisecond))
			}
			return nil
		},
	}
}
