package main

import (
	"fmt"

	"github.com/campusconnect-nz/campus-api/config"
	"github.com/campusconnect-nz/campus-api/internal/model"
	"github.com/campusconnect-nz/campus-api/pkg/server"
	"github.com/spf13/cobra"
)

var tokenFlags struct {
	id       string
	email    string
	role     string
	verified bool
}

// tokenCmd signs an access token with the configured secret, for smoke
// testing a deployment without going through signup.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := config.Load(configDir)
		if err != nil {
			return err
		}
		codec, err := server.NewCodec(env.AuthConfig)
		if err != nil {
			return err
		}

		token, err := codec.Issue(model.Identity{
			UserID:   tokenFlags.id,
			Email:    tokenFlags.email,
			Role:     model.Role(tokenFlags.role),
			Verified: tokenFlags.verified,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenFlags.id, "id", "", "user id (required)")
	tokenCmd.Flags().StringVar(&tokenFlags.email, "email", "", "email claim")
	tokenCmd.Flags().StringVar(&tokenFlags.role, "role", string(model.RoleStudent), "student or admin")
	tokenCmd.Flags().BoolVar(&tokenFlags.verified, "verified", false, "mark the identity as verified")
	_ = tokenCmd.MarkFlagRequired("id")

	rootCmd.AddCommand(tokenCmd)
}
