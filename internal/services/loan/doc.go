// Package loan runs the loan application flow for the connected wallet.
//
// Validate checks a LoanForm locally and never touches the network. Submit
// posts the request exactly as entered, refuses a second submission while
// one is in flight, and schedules a delayed refresh of the loan lists.
// RefreshLoans loads active loans and history as two independent fetches.
package loan
