package cli

import (
	"github.com/spf13/cobra"
)

func newChainCommand(a *app) *cobra.Command {
	var opts outputOptions

	cmd := &cobra.Command{
		Use:   "chain [prompt...]",
		Short: "Answer with one provider and have a second one analyze the answer",
		Long: "The first two configured providers run in sequence: the first answers\n" +
			"the prompt, the second reviews that answer. With a single configured\n" +
			"provider its direct answer is printed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.promptText(args)
			if err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := a.setupProviders(ctx); err != nil {
				return err
			}

			reply, err := a.service.ProcessIntegratedApproach(ctx, text)
			if err != nil {
				return err
			}
			a.emit(opts, reply)
			return nil
		},
	}

	addOutputFlags(cmd, &opts)
	return cmd
}
