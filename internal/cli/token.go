package cli

import (
	"errors"
	"fmt"

	"github.com/jhoicas/pos-beras/pkg/jwt"
	"github.com/spf13/cobra"
)

// NewTokenCommand crea el comando token: emite un JWT firmado con JWT_SECRET.
func NewTokenCommand(opts *RootOptions) *cobra.Command {
	var (
		userID     string
		role       string
		expMinutes int
	)
	cmd := &cobra.Command{
		Use:          "token",
		Short:        "Emitir un token de acceso para un cajero o administrador",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := opts.cfg.JWT.Secret
			if secret == "" {
				return errors.New("JWT_SECRET no está configurado: la API corre sin autenticación")
			}
			if expMinutes <= 0 {
				expMinutes = opts.cfg.JWT.Expiration
			}
			tok, err := jwt.Generate(secret, userID, role, opts.cfg.JWT.Issuer, expMinutes)
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"token": tok, "user_id": userID, "role": role, "expires_in_minutes": expMinutes,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "id del usuario (requerido)")
	cmd.Flags().StringVar(&role, "role", jwt.RoleKasir, "rol: admin | kasir")
	cmd.Flags().IntVar(&expMinutes, "exp", 0, "vigencia en minutos; 0 usa JWT_EXPIRATION_MINUTES")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
