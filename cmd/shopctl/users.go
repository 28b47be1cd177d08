package main

import (
	"errors"
	"fmt"
	"strings"

	"shoppos/internal/infra"
	"shoppos/internal/model"
	"shoppos/internal/repository"
	"shoppos/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	rootCmd.AddCommand(seedAdminCmd)
	rootCmd.AddCommand(hashPasswordCmd)

	seedAdminCmd.Flags().StringP("username", "u", "admin", "Username of the administrator")
	seedAdminCmd.Flags().StringP("password", "p", "", "Password for a newly created account")
	_ = seedAdminCmd.MarkFlagRequired("password")
}

// ─── seed-admin ─────────────────────────────────────────────────────────────

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create an administrator, or promote an existing user to admin",
	RunE:  runSeedAdmin,
}

func runSeedAdmin(cmd *cobra.Command, _ []string) error {
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")
	username = strings.TrimSpace(username)
	if username == "" {
		return errors.New("username must not be empty")
	}
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	_, db, err := openDatabase()
	if err != nil {
		return err
	}
	defer infra.CloseDatabase(db)

	ctx := cmd.Context()
	users := repository.NewUserRepository(db)

	existing, err := users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		if err := users.UpsertRole(ctx, existing.UserID, model.RoleAdmin); err != nil {
			return err
		}
		log.Info().Str("username", existing.Username).Msg("existing user promoted to admin")
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), service.BcryptCost)
	if err != nil {
		return err
	}
	profile := &model.Profile{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
	}
	role, err := users.CreateWithRole(ctx, profile)
	if err != nil {
		return err
	}
	if role != model.RoleAdmin {
		if err := users.UpsertRole(ctx, profile.UserID, model.RoleAdmin); err != nil {
			return err
		}
	}
	log.Info().Str("username", username).Str("user_id", profile.UserID.String()).Msg("admin created")
	return nil
}

// ─── hash-password ──────────────────────────────────────────────────────────

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password PASSWORD",
	Short: "Print the bcrypt hash stored for PASSWORD",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), service.BcryptCost)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(hash))
		return nil
	},
}
