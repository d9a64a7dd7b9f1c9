// Package identctl implements the operator CLI: hashing and verifying
// secrets, inspecting session tokens and drawing placeholder handles.
package identctl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/dmitrijs2005/gophid/internal/cryptox"
	"github.com/dmitrijs2005/gophid/internal/server/auth"
	"github.com/dmitrijs2005/gophid/internal/server/handles"
	"github.com/dmitrijs2005/gophid/internal/server/session"
	"github.com/spf13/cobra"
)

var errMismatch = errors.New("password does not match digest")

// NewRootCommand builds the identctl command tree reading from in and
// writing to out.
func NewRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "identctl",
		Short:         "Operator tools for the gophid identity service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)

	hasher := cryptox.NewBcryptHasher()

	root.AddCommand(
		newHashCommand(hasher),
		newVerifyCommand(hasher),
		newDecodeCommand(),
		newHandleCommand(),
	)
	return root
}

func newHashCommand(hasher cryptox.Hasher) *cobra.Command {
	var fromStdin bool
	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Print the bcrypt digest of a password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := getPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), fromStdin)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pw)

			digest, err := hasher.Hash(string(pw))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), digest)
			return err
		},
	}
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "read the password from standard input")
	return cmd
}

func newVerifyCommand(hasher cryptox.Hasher) *cobra.Command {
	var fromStdin bool
	cmd := &cobra.Command{
		Use:   "verify <digest>",
		Short: "Check a password against a bcrypt digest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := getPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), fromStdin)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pw)

			ok, err := hasher.Verify(string(pw), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return errMismatch
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return err
		},
	}
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "read the password from standard input")
	return cmd
}

func newDecodeCommand() *cobra.Command {
	var secret string
	cmd := &cobra.Command{
		Use:   "decode <session>",
		Short: "Print the user a session names",
		Long: "Print the user a session names. With --secret the argument is a signed\n" +
			"session token: its signature and expiry are checked and the sealed\n" +
			"session inside is opened first.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := args[0]
			if secret != "" {
				s, err := auth.OpenSessionToken(raw, []byte(secret), auth.SessionKey([]byte(secret)))
				if err != nil {
					return err
				}
				raw = s
			}

			u, err := session.Decode(raw)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"id":             strconv.FormatInt(u.ID, 10),
				"username":       u.UserName,
				"email":          u.Email,
				"federated_only": u.IsFederatedOnly(),
			})
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "session signing secret; treats the argument as a signed token")
	return cmd
}

func newHandleCommand() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "handle [prefix]",
		Short: "Draw placeholder emails",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := "user"
			if len(args) == 1 {
				prefix = args[0]
			}
			for i := 0; i < count; i++ {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), handles.Generate(prefix)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of handles")
	return cmd
}
