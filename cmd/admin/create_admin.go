package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"go-course-market/internal/app"
	"go-course-market/internal/service"
)

// 测试里替换
var readPassword = term.ReadPassword

var errPasswordMismatch = errors.New("passwords do not match")

var createAdminOpts struct {
	email    string
	fullName string
	password string
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "创建管理员账号（未传 --password 时交互输入）",
	RunE: func(cmd *cobra.Command, _ []string) error {
		pwd, err := resolvePassword(createAdminOpts.password, int(os.Stdin.Fd()), cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		rt, db, err := openDB()
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := app.Migrate(db); err != nil {
			return err
		}
		a, err := app.New(cmd.Context(), rt.Cfg, rt.Log, db)
		if err != nil {
			return err
		}
		defer a.Close()

		u, err := a.Registration.RegisterAdmin(cmd.Context(), service.RegisterInput{
			Email:    createAdminOpts.email,
			FullName: createAdminOpts.fullName,
			Password: pwd,
		})
		if err != nil {
			return err
		}
		rt.Log.Info("admin created", zap.Uint("user_id", u.ID), zap.String("email", u.Email))
		fmt.Fprintf(cmd.OutOrStdout(), "admin %s created (id=%d)\n", u.Email, u.ID)
		return nil
	},
}

// resolvePassword 优先用 flag，否则从终端读两次
func resolvePassword(flagVal string, fd int, w io.Writer) (string, error) {
	if flagVal != "" {
		return flagVal, nil
	}
	fmt.Fprint(w, "Password: ")
	p1, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	fmt.Fprint(w, "Password (again): ")
	p2, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if string(p1) != string(p2) {
		return "", errPasswordMismatch
	}
	if len(p1) == 0 {
		return "", errors.New("password is required")
	}
	return string(p1), nil
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&createAdminOpts.email, "email", "", "管理员邮箱（必填）")
	f.StringVar(&createAdminOpts.fullName, "full-name", "Administrator", "显示名")
	f.StringVar(&createAdminOpts.password, "password", "", "密码；留空则交互输入")
	_ = createAdminCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(createAdminCmd)
}
