package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Black-And-White-Club/leaderboard-api/pkg/jwt"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "token",
		Usage: "mint a player bearer token for local testing",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "player",
				Usage: "player UUID, random when omitted",
			},
			&cli.StringFlag{
				Name:  "username",
				Value: "local-player",
				Usage: "display name carried in the claims",
			},
			&cli.DurationFlag{
				Name:  "ttl",
				Value: time.Hour,
				Usage: "token lifetime",
			},
			&cli.StringFlag{
				Name:    "secret",
				Usage:   "HMAC signing secret",
				EnvVars: []string{"JWT_SECRET"},
			},
			&cli.StringFlag{
				Name:    "issuer",
				Value:   "leaderboard-api",
				EnvVars: []string{"JWT_ISSUER"},
			},
		},
		Action: mintToken,
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func mintToken(c *cli.Context) error {
	secret := c.String("secret")
	if secret == "" {
		return errors.New("a signing secret is required (--secret or JWT_SECRET)")
	}

	playerID := c.String("player")
	if playerID == "" {
		playerID = uuid.NewString()
	} else if _, err := uuid.Parse(playerID); err != nil {
		return fmt.Errorf("invalid player id %q: %w", playerID, err)
	}

	ttl := c.Duration("ttl")
	tokens := jwt.NewService(secret, c.String("issuer"), ttl)
	token, err := tokens.GenerateToken(playerID, c.String("username"), ttl)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	fmt.Fprintf(c.App.ErrWriter, "player: %s\n", playerID)
	fmt.Fprintln(c.App.Writer, token)
	return nil
}
