package ledgerService

import (
	"ExpenseTracker/internal/api/ledger"
	"context"
	"errors"
	"testing"
	"time"
)

func TestCreateUpdateWallet(t *testing.T) {
	t.Run("create starts with zeroed balance and totals", func(t *testing.T) {
		service, deps := newTestService()

		wallet, err := service.CreateUpdateWallet(context.Background(), "u1", "", ledger.UpsertWalletRequest{
			Name: "Savings",
		}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if wallet.ID == "" {
			t.Error("expected a generated wallet ID")
		}
		if wallet.Amount != 0 || wallet.TotalIncome != 0 || wallet.TotalExpenses != 0 {
			t.Errorf("new wallet = %+v, want zeroed balance and totals", wallet)
		}
		if _, ok := deps.store.wallets[wallet.ID]; !ok {
			t.Error("wallet not stored")
		}
	})

	t.Run("create without name is rejected", func(t *testing.T) {
		service, _ := newTestService()

		_, err := service.CreateUpdateWallet(context.Background(), "u1", "", ledger.UpsertWalletRequest{}, nil)
		if !errors.Is(err, ledger.ErrWalletNameRequired) {
			t.Fatalf("error = %v, want ErrWalletNameRequired", err)
		}
	})

	t.Run("update merges name and keeps balances", func(t *testing.T) {
		service, deps := newTestService()
		seedWallet(deps, "w1", "u1", 120, 150, 30)

		wallet, err := service.CreateUpdateWallet(context.Background(), "u1", "w1", ledger.UpsertWalletRequest{
			Name: "Renamed",
		}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if wallet.Name != "Renamed" {
			t.Errorf("name = %q, want Renamed", wallet.Name)
		}
		if wallet.Amount != 120 || wallet.TotalIncome != 150 || wallet.TotalExpenses != 30 {
			t.Errorf("balances changed by metadata update: %+v", wallet)
		}
	})

	t.Run("update with passthrough image url", func(t *testing.T) {
		service, deps := newTestService()
		seedWallet(deps, "w1", "u1", 0, 0, 0)

		wallet, err := service.CreateUpdateWallet(context.Background(), "u1", "w1", ledger.UpsertWalletRequest{
			ImageURL: "https://cdn.example.com/wallets/pig.png",
		}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if wallet.ImageURL != "https://cdn.example.com/wallets/pig.png" {
			t.Errorf("image url = %q, want passthrough value", wallet.ImageURL)
		}
		if deps.media.uploads != 0 {
			t.Errorf("uploads = %d, want 0 for an already-remote image", deps.media.uploads)
		}
		if got := deps.store.wallets["w1"].Name; got != "Wallet w1" {
			t.Errorf("name = %q, want unchanged", got)
		}
	})

	t.Run("update of unknown wallet", func(t *testing.T) {
		service, _ := newTestService()

		_, err := service.CreateUpdateWallet(context.Background(), "u1", "missing", ledger.UpsertWalletRequest{
			Name: "Ghost",
		}, nil)
		if !errors.Is(err, ledger.ErrWalletNotFound) {
			t.Fatalf("error = %v, want ErrWalletNotFound", err)
		}
	})
}

func TestDeleteWallet(t *testing.T) {
	t.Run("removes the wallet and its transactions", func(t *testing.T) {
		service, deps := newTestService()
		seedWallet(deps, "w1", "u1", 60, 100, 40)
		seedWallet(deps, "w2", "u1", 10, 10, 0)
		seedTransaction(deps, "t1", "u1", "w1", "income", 100, time.Now())
		seedTransaction(deps, "t2", "u1", "w1", "expense", 40, time.Now())
		seedTransaction(deps, "t3", "u1", "w2", "income", 10, time.Now())

		if err := service.DeleteWallet(context.Background(), "u1", "w1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, ok := deps.store.wallets["w1"]; ok {
			t.Error("wallet still stored after delete")
		}
		for _, id := range []string{"t1", "t2"} {
			if _, ok := deps.store.transactions[id]; ok {
				t.Errorf("transaction %s survived wallet delete", id)
			}
		}
		if _, ok := deps.store.transactions["t3"]; !ok {
			t.Error("unrelated transaction removed")
		}
	})

	t.Run("unknown wallet leaves transactions alone", func(t *testing.T) {
		service, deps := newTestService()
		seedWallet(deps, "w1", "u1", 10, 10, 0)
		seedTransaction(deps, "t1", "u1", "w1", "income", 10, time.Now())

		err := service.DeleteWallet(context.Background(), "u1", "missing")
		if !errors.Is(err, ledger.ErrWalletNotFound) {
			t.Fatalf("error = %v, want ErrWalletNotFound", err)
		}
		if _, ok := deps.store.transactions["t1"]; !ok {
			t.Error("transaction removed despite failed wallet delete")
		}
	})

	t.Run("other user's wallet is invisible", func(t *testing.T) {
		service, deps := newTestService()
		seedWallet(deps, "w1", "other", 10, 10, 0)

		err := service.DeleteWallet(context.Background(), "u1", "w1")
		if !errors.Is(err, ledger.ErrWalletNotFound) {
			t.Fatalf("error = %v, want ErrWalletNotFound", err)
		}
		if _, ok := deps.store.wallets["w1"]; !ok {
			t.Error("other user's wallet removed")
		}
	})

	t.Run("removes the stored wallet image", func(t *testing.T) {
		service, deps := newTestService()
		seedWallet(deps, "w1", "u1", 0, 0, 0)
		withImage := deps.store.wallets["w1"]
		withImage.ImageURL = "https://cdn.example.com/wallets/cover.png"
		deps.store.wallets["w1"] = withImage

		if err := service.DeleteWallet(context.Background(), "u1", "w1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(deps.media.deleted) != 1 || deps.media.deleted[0] != withImage.ImageURL {
			t.Errorf("deleted files = %v, want the wallet image URL", deps.media.deleted)
		}
	})
}

func TestGetWallets(t *testing.T) {
	service, deps := newTestService()
	seedWallet(deps, "w1", "u1", 10, 10, 0)
	seedWallet(deps, "w2", "u1", 20, 20, 0)
	seedWallet(deps, "w3", "other", 5, 5, 0)

	wallets, err := service.GetWallets(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wallets) != 2 {
		t.Fatalf("wallet count = %d, want 2", len(wallets))
	}
	for _, wallet := range wallets {
		if wallet.UserID != "u1" {
			t.Errorf("leaked wallet %s for user %s", wallet.ID, wallet.UserID)
		}
	}
}

func TestWalletImagePresign(t *testing.T) {
	service, deps := newTestService()
	deps.media.presignPrefix = "https://signed.example/"
	seedWallet(deps, "w1", "u1", 10, 10, 0)
	seedWallet(deps, "w2", "u1", 20, 20, 0)
	withImage := deps.store.wallets["w1"]
	withImage.ImageURL = "https://cdn.example.com/wallets/cover.png"
	deps.store.wallets["w1"] = withImage
	want := deps.media.presignPrefix + withImage.ImageURL

	t.Run("list serves presigned urls", func(t *testing.T) {
		wallets, err := service.GetWallets(context.Background(), "u1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, wallet := range wallets {
			switch wallet.ID {
			case "w1":
				if wallet.ImageURL != want {
					t.Errorf("image url = %q, want presigned %q", wallet.ImageURL, want)
				}
			case "w2":
				if wallet.ImageURL != "" {
					t.Errorf("image url = %q, want empty for wallet without image", wallet.ImageURL)
				}
			}
		}
	})

	t.Run("single read serves a presigned url", func(t *testing.T) {
		wallet, err := service.GetWalletByID(context.Background(), "u1", "w1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if wallet.ImageURL != want {
			t.Errorf("image url = %q, want presigned %q", wallet.ImageURL, want)
		}
	})
}

func TestSubscribeWallets(t *testing.T) {
	service, deps := newTestService()
	seedWallet(deps, "w1", "u1", 10, 10, 0)

	snapshot, updates, cancel, err := service.SubscribeWallets(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(snapshot) != 1 || snapshot[0].ID != "w1" {
		t.Errorf("initial snapshot = %+v, want wallet w1", snapshot)
	}

	cancel()

	if _, ok := <-updates; ok {
		t.Error("channel still open after cancel")
	}
}
