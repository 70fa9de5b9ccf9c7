package main

import "github.com/urfave/cli"

var cmds = cli.Commands{
	{
		Name:      "init",
		Usage:     "write a configuration file",
		Aliases:   []string{"i"},
		ArgsUsage: "<contract address>",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "rpc",
				Value: "http://127.0.0.1:8545",
				Usage: "JSON-RPC endpoint of the node",
			},
			cli.StringFlag{
				Name:  "abi",
				Usage: "ABI file of the contract, the election ABI if empty",
			},
			cli.Uint64Flag{
				Name:  "gas-limit",
				Value: 0,
				Usage: "gas limit for the transactions, estimated if 0",
			},
			cli.StringFlag{
				Name:  "explorer",
				Usage: "URL prefix of the transactions in a block explorer",
			},
		},
		Action: initConfig,
	},
	{
		Name:    "create_key",
		Usage:   "create a new key file wallet",
		Aliases: []string{"ck"},
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "name",
				Value: "main",
				Usage: "wallet name",
			},
		},
		Action: createKey,
	},
	{
		Name:    "connect",
		Usage:   "connect a wallet and show its address",
		Aliases: []string{"co"},
		Action:  connect,
	},
	{
		Name:    "candidates",
		Usage:   "list the candidates of the election",
		Aliases: []string{"ls"},
		Action:  listCandidates,
	},
	{
		Name:      "vote",
		Usage:     "vote for a candidate and wait for the confirmation",
		Aliases:   []string{"v"},
		ArgsUsage: "<candidate id>",
		Action:    vote,
	},
	{
		Name:    "shell",
		Usage:   "interactive session (default)",
		Aliases: []string{"sh"},
		Action:  shell,
	},
}
