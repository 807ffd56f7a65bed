package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"polyprompt/model"
)

func newChatCommand(a *app) *cobra.Command {
	var (
		providerName string
		opts         outputOptions
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Hold a multi-turn conversation with one provider",
		Long: "Read messages from stdin one line at a time and send the whole\n" +
			"conversation each turn. /reset clears the history, /exit quits.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session := a.sessionContext(cmd)
			if err := a.setupProviders(session); err != nil {
				return err
			}

			id, err := a.targetIdentity(providerName)
			if err != nil {
				return err
			}
			p, err := a.registry.GetProvider(id)
			if err != nil {
				return err
			}

			fmt.Fprintln(a.errOut, DimStyle.Render(fmt.Sprintf("Chatting with %s (%s). /reset clears, /exit quits.", p.GetName(), p.GetModel())))

			var turns []model.ChatTurn
			scanner := bufio.NewScanner(a.in)
			scanner.Buffer(make([]byte, 64*1024), 1024*1024)
			for {
				fmt.Fprint(a.errOut, HeaderStyle.Render("you> "))
				if !scanner.Scan() {
					break
				}

				line := strings.TrimSpace(scanner.Text())
				switch line {
				case "":
					continue
				case "/exit", "/quit":
					return nil
				case "/reset":
					turns = nil
					fmt.Fprintln(a.errOut, DimStyle.Render("History cleared"))
					continue
				}

				turns = append(turns, model.UserTurn(line))
				ctx, cancel := a.requestContext(session)
				reply, err := a.service.ProcessChat(ctx, id, turns)
				cancel()
				if err != nil {
					// Drop the unanswered turn so the user can retry.
					turns = turns[:len(turns)-1]
					fmt.Fprintln(a.errOut, ErrorStyle.Render("Error: "+err.Error()))
					if session.Err() != nil {
						return session.Err()
					}
					continue
				}

				turns = append(turns, model.AssistantTurn(reply))
				a.emit(opts, reply)
			}
			return scanner.Err()
		},
	}

	cmd.Flags().StringVarP(&providerName, "provider", "p", "", "provider to chat with (default provider when empty)")
	addOutputFlags(cmd, &opts)
	return cmd
}
