package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/e0ipso/simple-oauth-21-sub003/cmd/app/commands"
	"github.com/e0ipso/simple-oauth-21-sub003/internal/app"
	"github.com/e0ipso/simple-oauth-21-sub003/internal/config"
)

func getOAuthCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "clean-device-codes",
			Usage: "Delete expired and resolved device codes",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "retention-days",
					Aliases: []string{"r"},
					Value:   0,
					Usage:   "Keep resolved codes younger than this many days (0 uses the configured default)",
				},
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Value:   false,
					Usage:   "Show how many codes would be deleted without deleting",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				deviceFlowUseCase, err := container.DeviceFlowUseCase()
				if err != nil {
					return err
				}

				return commands.RunCleanDeviceCodes(
					ctx,
					deviceFlowUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("retention-days")),
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "device-code-stats",
			Usage: "Show counts of device codes by state",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				deviceFlowUseCase, err := container.DeviceFlowUseCase()
				if err != nil {
					return err
				}

				return commands.RunDeviceCodeStats(
					ctx,
					deviceFlowUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "create-client",
			Usage: "Register a new OAuth client",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Human-readable client name",
				},
				&cli.StringFlag{
					Name:  "client-id",
					Usage: "Wire client_id (generated when omitted)",
				},
				&cli.BoolFlag{
					Name:  "confidential",
					Value: false,
					Usage: "Whether the client can keep a secret (a secret is generated)",
				},
				&cli.StringSliceFlag{
					Name:    "redirect-uri",
					Aliases: []string{"u"},
					Usage:   "Redirect URI (repeatable)",
				},
				&cli.StringSliceFlag{
					Name:    "grant-type",
					Aliases: []string{"g"},
					Usage:   "Allowed grant type (repeatable, defaults to the device code grant)",
				},
				&cli.BoolFlag{
					Name:    "active",
					Aliases: []string{"a"},
					Value:   true,
					Usage:   "Whether the client can authenticate immediately",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				clientRepository, err := container.ClientRepository()
				if err != nil {
					return err
				}

				return commands.RunCreateClient(
					ctx,
					clientRepository,
					container.SecretService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					commands.CreateClientParams{
						Name:           cmd.String("name"),
						ClientID:       cmd.String("client-id"),
						IsConfidential: cmd.Bool("confidential"),
						RedirectURIs:   cmd.StringSlice("redirect-uri"),
						GrantTypes:     cmd.StringSlice("grant-type"),
						IsActive:       cmd.Bool("active"),
						Format:         cmd.String("format"),
					},
				)
			},
		},
	}
}
