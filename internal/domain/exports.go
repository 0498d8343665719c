package domain

import (
	interfaces "socialfi/internal/domain/interfaces"
	types "socialfi/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Address                  = types.Address
	ProviderKind             = types.ProviderKind
	TwitterStatus            = types.TwitterStatus
	WalletSession            = types.WalletSession
	PersistedSession         = types.PersistedSession
	SessionEvent             = types.SessionEvent
	UserScore                = types.UserScore
	UserProfile              = types.UserProfile
	TwitterConnection        = types.TwitterConnection
	TwitterStats             = types.TwitterStats
	StatusMessage            = types.StatusMessage
	LoanStatus               = types.LoanStatus
	Loan                     = types.Loan
	LoanRequest              = types.LoanRequest
	RepayRequest             = types.RepayRequest
	TxResponse               = types.TxResponse
	InterestQuote            = types.InterestQuote
	LoanCalculation          = types.LoanCalculation
	LoanForm                 = types.LoanForm
	Pool                     = types.Pool
	ProvideLiquidityRequest  = types.ProvideLiquidityRequest
	WithdrawLiquidityRequest = types.WithdrawLiquidityRequest
	Account                  = types.Account
	Transaction              = types.Transaction
	Ed25519Public            = types.Ed25519Public
	Ed25519Private           = types.Ed25519Private
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	UserAPI              = interfaces.UserAPI
	LoanAPI              = interfaces.LoanAPI
	PoolAPI              = interfaces.PoolAPI
	BackendClient        = interfaces.BackendClient
	Provider             = interfaces.Provider
	ProviderFactory      = interfaces.ProviderFactory
	NetworkReader        = interfaces.NetworkReader
	SessionStore         = interfaces.SessionStore
	KeyStore             = interfaces.KeyStore
	SessionReader        = interfaces.SessionReader
	WalletSessionService = interfaces.WalletSessionService
	ScoreReader          = interfaces.ScoreReader
)

// Constants re-exported for callers that only import domain.
const (
	ProviderExtension     = types.ProviderExtension
	ProviderWalletConnect = types.ProviderWalletConnect

	TwitterUnknown   = types.TwitterUnknown
	TwitterLinked    = types.TwitterLinked
	TwitterNotLinked = types.TwitterNotLinked

	LoanActive    = types.LoanActive
	LoanRepaid    = types.LoanRepaid
	LoanDefaulted = types.LoanDefaulted

	DefaultLoanDuration = types.DefaultLoanDuration
	DefaultTokenID      = types.DefaultTokenID
)

// Function re-exports.
var (
	ParseProviderKind = types.ParseProviderKind
	ValidLoanDuration = types.ValidLoanDuration
	NewLoanForm       = types.NewLoanForm
	LoanDurations     = types.LoanDurations
)
