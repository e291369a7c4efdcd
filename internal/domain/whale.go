package domain

// TransferSummary aggregates recent token transfers through the monitored
// exchange contract into per-wallet activity, ranked by tracked volume.
type TransferSummary struct {
	Source             string           `json:"source"`
	ContractMonitored  string           `json:"contract_monitored"`
	WalletsAnalyzed    int              `json:"wallets_analyzed"`
	WhaleCount         int              `json:"whale_count"`
	TotalVolumeTracked float64          `json:"total_volume_tracked"`
	NetFlowDirection   string           `json:"net_flow_direction,omitempty"`
	Wallets            []WalletActivity `json:"whale_wallets,omitempty"`
	Totals             FlowTotals       `json:"summary"`
	Error              string           `json:"error,omitempty"`
}

// WalletActivity is one counterparty's aggregated transfer activity.
type WalletActivity struct {
	Address        string  `json:"address"`
	TotalVolumeUSD float64 `json:"total_volume_usd"`
	TxCount        int     `json:"tx_count"`
	MaxSingleTxUSD float64 `json:"max_single_tx_usd"`
	DepositsUSD    float64 `json:"deposits_usd"`
	WithdrawalsUSD float64 `json:"withdrawals_usd"`
	NetDirection   string  `json:"net_direction"`
	IsWhale        bool    `json:"is_whale"`
	Tag            string  `json:"whale_tag"`
}

// WalletTrade is one inferred trade from a wallet's recent token transfers.
// Transfers into the exchange contract read as buys, transfers out as sells.
// MarketImage and Price are unresolvable from transfer data and stay null.
type WalletTrade struct {
	Side        string   `json:"side"`
	MarketName  string   `json:"market_name"`
	MarketImage *string  `json:"market_image"`
	Amount      float64  `json:"amount"`
	Price       *float64 `json:"price"`
	Timestamp   string   `json:"timestamp"`
	TimeAgo     string   `json:"time_ago"`
	TxHash      string   `json:"tx_hash"`
}

// FlowTotals sums deposits and withdrawals across the ranked wallets.
type FlowTotals struct {
	Deposits    float64 `json:"total_deposits"`
	Withdrawals float64 `json:"total_withdrawals"`
	NetFlow     float64 `json:"net_flow"`
	WhaleCount  int     `json:"whale_count"`
	FishCount   int     `json:"fish_count"`
}
