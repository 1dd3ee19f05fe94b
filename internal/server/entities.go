package server

// Mutation bodies carry the acting address explicitly; authorization is
// enforced by the vault core, not at the transport layer.

type AddCollateralRequest struct {
	Caller   string `json:"caller"`
	Token    string `json:"token"`
	Decimals uint8  `json:"decimals"`
	Rate     string `json:"rate"`
}

type UpdateRateRequest struct {
	Caller string `json:"caller"`
	Rate   string `json:"rate"`
}

type ReorderHooksRequest struct {
	Caller string `json:"caller"`
	Order  []int  `json:"order"`
}

type DepositRequest struct {
	Caller   string `json:"caller"`
	Token    string `json:"token"`
	Amount   string `json:"amount"`
	Receiver string `json:"receiver"`
}

type DepositResponse struct {
	Shares string `json:"shares"`
}

type WithdrawRequest struct {
	Caller string `json:"caller"`
	Owner  string `json:"owner"`
	To     string `json:"to"`
	Shares string `json:"shares"`
}

type WithdrawResponse struct {
	Assets string `json:"assets"`
}

type TransferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type ApproveRequest struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

type FundRedemptionsRequest struct {
	Caller string `json:"caller"`
	Amount string `json:"amount"`
}

type SignedWithdrawal struct {
	Owner          string `json:"owner"`
	To             string `json:"to"`
	Shares         string `json:"shares"`
	MinAssets      string `json:"min_assets"`
	Nonce          uint64 `json:"nonce"`
	ExpirationTime uint64 `json:"expiration_time"`
	Signature      string `json:"signature"` // 65-byte r||s||v, hex
}

type RedeemRequest struct {
	Caller     string           `json:"caller"`
	Withdrawal SignedWithdrawal `json:"withdrawal"`
}

type BatchRedeemRequest struct {
	Caller      string             `json:"caller"`
	Withdrawals []SignedWithdrawal `json:"withdrawals"`
}

type BatchRedeemResponse struct {
	Assets []string `json:"assets"`
}

type CollateralDto struct {
	Token    string `json:"token"`
	Decimals uint8  `json:"decimals"`
	Rate     string `json:"rate"`
	Balance  string `json:"balance"`
}

type HookDto struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

type HooksResponse struct {
	Operation    string    `json:"operation"`
	Hooks        []HookDto `json:"hooks"`
	LastExecuted string    `json:"last_executed,omitempty"`
}

type VaultStateResponse struct {
	TotalValue      string `json:"total_value"`
	TotalShares     string `json:"total_shares"`
	RedemptionFunds string `json:"redemption_funds"`
}

type BalanceResponse struct {
	Balance string `json:"balance"`
}

type NonceResponse struct {
	Owner string `json:"owner"`
	Nonce uint64 `json:"nonce"`
	Used  bool   `json:"used"`
}
