package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/phxevent/eventbook-console/internal/api"
	"github.com/phxevent/eventbook-console/internal/api/handler"
	"github.com/phxevent/eventbook-console/internal/core/domain"
	"github.com/phxevent/eventbook-console/internal/infrastructure/config"
	"github.com/phxevent/eventbook-console/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var validate = validator.New()

func rootCmd(lookuper envconfig.Lookuper) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Local console for the event-booking platform",
		Long: `eventbook serves the login, registration and dashboard pages of the
event-booking platform on a local address, and manages the same session
from the command line.

Configuration comes from the environment (and a .env file if present);
see API_BASE_URL, STORAGE_DRIVER and ADDR.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error); overrides LOG_LEVEL")

	withApp := func(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), lookuper, logLevel)
			if err != nil {
				return err
			}
			defer a.Close()
			return run(cmd, a, args)
		}
	}

	cmd.AddCommand(
		serveCmd(withApp),
		loginCmd(withApp),
		registerCmd(withApp),
		logoutCmd(withApp),
		whoamiCmd(withApp),
		routesCmd(lookuper),
		versionCmd(),
	)
	return cmd
}

type appRunner func(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error

func serveCmd(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the console pages",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			roles, err := a.cfg.RequiredDashboardRoles()
			if err != nil {
				return err
			}

			e, closeRouter, err := api.NewRouter(api.Deps{
				Session: a.session,
				Events:  a.client,
				Readiness: map[string]handler.Pinger{
					"storage": a.storage,
					"backend": a.client,
				},
				DashboardRoles: roles,
				Logger:         logger.Component("http"),
			})
			if err != nil {
				return err
			}
			defer closeRouter()

			errCh := make(chan error, 1)
			go func() { errCh <- e.Start(a.cfg.Addr) }()
			a.log.Info().
				Str("addr", a.cfg.Addr).
				Str("api", a.cfg.APIBaseURL).
				Str("storage", a.cfg.Storage.Driver).
				Msg("console listening")

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
			}

			a.log.Info().Msg("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return e.Shutdown(ctx)
		}),
	}
}

func loginCmd(withApp appRunner) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session locally",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			if password == "" {
				var err error
				if password, err = readSecret(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			if err := validate.Var(email, "required,email"); err != nil {
				return errors.New("--email must be a valid email")
			}
			if err := validate.Var(password, "required,min=6"); err != nil {
				return errors.New("password must be at least 6 characters")
			}

			resp, err := a.session.Login(cmd.Context(), domain.LoginRequest{Email: email, Password: password})
			if err != nil {
				a.log.Debug().Err(err).Msg("login failed")
				return errors.New(domain.UserMessage(err, "Login failed. Please try again."))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", resp.Identity().DisplayName(), resp.Role)
			return nil
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password; read from stdin when omitted")
	return cmd
}

func registerCmd(withApp appRunner) *cobra.Command {
	var req domain.RegisterRequest
	var role string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on the event-booking platform",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			if req.Password == "" {
				var err error
				if req.Password, err = readSecret(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			req.Role = domain.Role(strings.ToUpper(strings.TrimSpace(role)))
			if err := validateRegistration(req); err != nil {
				return err
			}

			if _, err := a.session.Register(cmd.Context(), req); err != nil {
				a.log.Debug().Err(err).Msg("registration failed")
				return errors.New(domain.UserMessage(err, "Registration failed. Please try again."))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Registration successful! Please log in.")
			return nil
		}),
	}
	f := cmd.Flags()
	f.StringVar(&req.Email, "email", "", "Account email")
	f.StringVar(&req.Password, "password", "", "Account password (min 6); read from stdin when omitted")
	f.StringVar(&req.FirstName, "first-name", "", "First name")
	f.StringVar(&req.LastName, "last-name", "", "Last name")
	f.StringVar(&role, "role", "", "VENDOR, ADMIN or PUBLIC_USER")
	f.StringVar(&req.PhoneNumber, "phone", "", "Phone number (optional)")
	f.StringVar(&req.Location, "location", "", "Location (optional)")
	return cmd
}

func validateRegistration(req domain.RegisterRequest) error {
	var problems []string
	if validate.Var(req.Email, "required,email") != nil {
		problems = append(problems, "--email must be a valid email")
	}
	if validate.Var(req.Password, "required,min=6") != nil {
		problems = append(problems, "password must be at least 6 characters")
	}
	if req.FirstName == "" {
		problems = append(problems, "--first-name is required")
	}
	if req.LastName == "" {
		problems = append(problems, "--last-name is required")
	}
	if !req.Role.Valid() {
		problems = append(problems, "--role must be one of VENDOR, ADMIN, PUBLIC_USER")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func logoutCmd(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			a.session.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		}),
	}
}

func whoamiCmd(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			out := cmd.OutOrStdout()
			if a.session.ExpireStale(cmd.Context()) {
				fmt.Fprintln(out, "Your session has expired. Please log in again.")
				return nil
			}
			identity := a.session.CurrentIdentity()
			if identity == nil {
				fmt.Fprintln(out, "Not logged in.")
				return nil
			}
			fmt.Fprintf(out, "%s <%s>\nRole: %s\n", identity.DisplayName(), identity.Email, identity.Role)
			return nil
		}),
	}
}

func routesCmd(lookuper envconfig.Lookuper) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the console's navigation table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadWith(cmd.Context(), lookuper)
			if err != nil {
				return err
			}
			roles, err := cfg.RequiredDashboardRoles()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tBEHAVIOUR\tROLES")
			for _, r := range api.Routes(roles) {
				behaviour := "page " + r.View
				if r.RedirectTo != "" {
					behaviour = "redirect " + r.RedirectTo
				}
				if r.Protected {
					behaviour += " (guarded)"
				}
				allowed := "-"
				if r.Protected {
					allowed = "any"
				}
				if len(r.RequiredRoles) > 0 {
					names := make([]string, len(r.RequiredRoles))
					for i, role := range r.RequiredRoles {
						names[i] = string(role)
					}
					allowed = strings.Join(names, ",")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.Path, behaviour, allowed)
			}
			return w.Flush()
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

// readSecret reads one line from r, for passwords piped on stdin.
func readSecret(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
