package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/cobra"

	"github.com/safesignal/chainassure"
	"github.com/safesignal/chainassure/contract/verifier"
	"github.com/safesignal/chainassure/provider/walletrpc"
	"github.com/safesignal/chainassure/registry"
)

func createChainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chains",
		Short: "List the chains in the embedded catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CHAIN ID\tNAME\tCURRENCY\tEXPLORER")
			for _, d := range registry.Default().All() {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
					d.ID, d.DisplayName, d.NativeCurrency.Symbol, d.ExplorerURL)
			}
			return w.Flush()
		},
	}
}

func createStatusCmd() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Read the on-chain verified flag for an address",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if cfg.Contract == "" {
				return fmt.Errorf("CHAINASSURE_CONTRACT is not set")
			}
			if !common.IsHexAddress(address) {
				return fmt.Errorf("invalid address %q", address)
			}
			if _, err := cfg.targetChain(); err != nil {
				return err
			}

			ctx := cmd.Context()
			node, err := ethclient.DialContext(ctx, cfg.NodeRPC)
			if err != nil {
				return fmt.Errorf("dial node rpc: %w", err)
			}
			defer node.Close()

			binding, err := verifier.New(common.HexToAddress(cfg.Contract), node, nil)
			if err != nil {
				return err
			}
			verified, err := binding.IsVerified(ctx, common.HexToAddress(address))
			if err != nil {
				return err
			}
			fmt.Printf("%s verified=%t\n", address, verified)
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "account address to check")
	_ = cmd.MarkFlagRequired("address")
	return cmd
}

func createVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Switch the wallet to the target chain and submit the verification call",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if cfg.Contract == "" {
				return fmt.Errorf("CHAINASSURE_CONTRACT is not set")
			}
			target, err := cfg.targetChain()
			if err != nil {
				return err
			}
			log := cfg.logger()
			ctx := cmd.Context()

			wallet, err := walletrpc.Dial(ctx, cfg.WalletRPC)
			if err != nil {
				return err
			}
			defer wallet.Close()

			node, err := ethclient.DialContext(ctx, cfg.NodeRPC)
			if err != nil {
				return fmt.Errorf("dial node rpc: %w", err)
			}
			defer node.Close()

			binding, err := verifier.New(common.HexToAddress(cfg.Contract), node, wallet)
			if err != nil {
				return err
			}

			orch := chainassure.NewOrchestrator(wallet, binding, node, target,
				chainassure.WithLogger(log))

			accounts, err := wallet.RequestAccounts(ctx)
			if err != nil {
				return fmt.Errorf("request accounts: %w", err)
			}
			if len(accounts) == 0 {
				return fmt.Errorf("wallet exposed no accounts")
			}
			chainID, err := wallet.ChainID(ctx)
			if err != nil {
				return fmt.Errorf("read wallet chain id: %w", err)
			}

			orch.HandleConnectionChange(ctx, chainassure.ConnectionState{
				Connected:     true,
				Address:       accounts[0],
				ActiveChainID: chainID,
			})

			if err := orch.Verify(ctx); err != nil {
				return err
			}

			snap := orch.Status()
			fmt.Printf("verified=%t tx=%s\n", snap.Verified, snap.TxHash)
			return nil
		},
	}
}
