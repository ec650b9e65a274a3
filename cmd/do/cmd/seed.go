package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/onegoal/onegoal/internal/app"
	"github.com/onegoal/onegoal/internal/config"
	"github.com/onegoal/onegoal/internal/logger"
	"github.com/onegoal/onegoal/internal/model"
	"github.com/onegoal/onegoal/internal/repository"
	"github.com/onegoal/onegoal/internal/service"
	"github.com/onegoal/onegoal/internal/validation"
	"github.com/spf13/cobra"
)

func SeedAdminCmd() *cobra.Command {
	var email, password, firstName, lastName string

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create an admin account, or promote an existing one",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger.Init(cfg.IsDevelopment(), "")

			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			userID, err := seedAdmin(a, service.RegisterInput{
				Email:     email,
				Password:  password,
				FirstName: firstName,
				LastName:  lastName,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "admin ready: %s (%s)\n", email, userID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email address")
	cmd.Flags().StringVar(&password, "password", "", "password for a new account")
	cmd.Flags().StringVar(&firstName, "first-name", "Admin", "first name for a new account")
	cmd.Flags().StringVar(&lastName, "last-name", "User", "last name for a new account")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func seedAdmin(a *app.App, input service.RegisterInput) (string, error) {
	users := repository.NewUserRepository(a.DB)

	user, err := a.AuthService.Register(input)
	if errors.Is(err, service.ErrEmailAlreadyExists) {
		user, err = users.ByEmail(validation.NormalizeEmail(input.Email))
	}
	if err != nil {
		return "", err
	}

	if user.Role != model.RoleAdmin {
		err = users.UpdateRole(user.ID, model.RoleAdmin)
		if err != nil {
			return "", fmt.Errorf("failed to promote user: %w", err)
		}
		slog.Info("user promoted to admin", "user_id", user.ID)
	}

	return user.ID, nil
}
