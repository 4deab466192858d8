package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophtodo/internal/common"
)

var errPathRequired = errors.New("file path required")

// Toasts lists the notifications that are still visible.
func (a *App) Toasts(_ context.Context) error {
	list := a.notifications.Notifications()
	if len(list) == 0 {
		a.println("No notifications.")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, n := range list {
		fmt.Fprintf(tw, "%s\t%s\t\n", shortID(n.ID), formatToast(n))
	}
	return tw.Flush()
}

// Dismiss removes one toast by id or prefix, or every toast with "all".
func (a *App) Dismiss(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "all" {
		a.notifications.Clear(ctx)
		return nil
	}
	for _, n := range a.notifications.Notifications() {
		if n.ID == args[0] || shortID(n.ID) == args[0] {
			a.notifications.Remove(ctx, n.ID)
			return nil
		}
	}
	a.println("No such notification:", args[0])
	return nil
}

func (a *App) askPassphrase(confirmIt bool) ([]byte, error) {
	pass, err := getPassword(a.reader, "Backup passphrase", a.out)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(pass); err != nil {
		common.WipeByteArray(pass)
		return nil, err
	}
	if !confirmIt {
		return pass, nil
	}

	again, err := getPassword(a.reader, "Confirm passphrase", a.out)
	if err != nil {
		common.WipeByteArray(pass)
		return nil, err
	}
	defer common.WipeByteArray(again)
	if string(pass) != string(again) {
		common.WipeByteArray(pass)
		return nil, errPasswordMismatch
	}
	return pass, nil
}

// Export writes every user and task to args[0], encrypted under a passphrase.
func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errPathRequired
	}
	pass, err := a.askPassphrase(true)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pass)

	if err := a.backupService.Export(ctx, args[0], pass); err != nil {
		a.notifications.Error(ctx, "Export failed")
		return err
	}
	a.notifications.Success(ctx, "Backup written to "+args[0])
	return nil
}

// Import replaces all local data with the backup at args[0] and logs out.
func (a *App) Import(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errPathRequired
	}
	if !confirm(a.reader, "Importing replaces all local data and logs you out. Continue?", a.out) {
		a.println("Cancelled.")
		return nil
	}
	pass, err := a.askPassphrase(false)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pass)

	err = a.backupService.Import(ctx, args[0], pass)
	switch {
	case errors.Is(err, common.ErrBadPassphrase):
		a.notifications.Error(ctx, "Wrong passphrase or corrupted backup")
		return nil
	case errors.Is(err, common.ErrUnsupportedBackup):
		a.notifications.Error(ctx, "Not a gophtodo backup")
		return nil
	case err != nil:
		return err
	}
	a.notifications.Success(ctx, "Backup restored, please log in")
	return nil
}

// ClearData wipes users, tasks and the session, then logs out.
func (a *App) ClearData(ctx context.Context) error {
	if !confirm(a.reader, "Delete ALL users and tasks?", a.out) {
		a.println("Cancelled.")
		return nil
	}
	a.store.ClearAll(ctx)
	a.authService.Logout(ctx)
	a.taskService.Reload(ctx)
	a.notifications.Info(ctx, "All data cleared")
	return nil
}
