// Package cll holds small helpers for composing urfave/cli/v3 applications.
package cll

import "github.com/urfave/cli/v3"

// Registerable is a command group that can attach itself to a root command.
type Registerable interface {
	Register(*cli.Command) *cli.Command
}

// Register applies each Registerable to root in order.
//
//	root := &cli.Command{Name: "sesconf"}
//	root = cll.Register(root, applyCmd, checkCmd)
func Register(root *cli.Command, subs ...Registerable) *cli.Command {
	for _, s := range subs {
		root = s.Register(root)
	}

	return root
}

// EnvWithPrefix returns a constructor for env var sources sharing prefix.
//
//	env := cll.EnvWithPrefix("SESCONF_")
//	flag := &cli.StringFlag{
//		Name:    "plan",
//		Sources: env("PLAN"), // reads SESCONF_PLAN
//	}
func EnvWithPrefix(prefix string) func(strs ...string) cli.ValueSourceChain {
	return func(strs ...string) cli.ValueSourceChain {
		withPrefix := make([]string, len(strs))

		for i, str := range strs {
			withPrefix[i] = prefix + str
		}

		return cli.EnvVars(withPrefix...)
	}
}
