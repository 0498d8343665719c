// Package main runs the in-memory credit backend used by socialfi during
// development and tests. One listener serves three surfaces:
//
// HTTP API
//
//	GET  /api/users/{address}                 profile (defaults for unknown users)
//	GET  /api/users/{address}/score           score and loan eligibility
//	POST /api/users/{address}/connect-twitter link a social account
//	GET  /api/users/{address}/twitter-stats   activity stats, 404 until linked
//	GET  /api/loans?address=&status=          loans, oldest first
//	GET  /api/loans/{id}
//	GET  /api/loans/calculate-interest?amount=&address=
//	POST /api/loans/request                   prepare a loan transaction
//	POST /api/loans/repay                     prepare a repayment transaction
//	GET  /api/pools
//	GET  /api/pools/{id}
//	POST /api/pools/provide
//	POST /api/pools/withdraw
//
//	GET  /accounts/{address}                  network account with balance
//	GET  /metrics                             Prometheus metrics
//	GET  /ws                                  auto-approving wallet relay
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - Errors are JSON bodies of the form {"detail": "..."}.
//   - Interest is a flat 5%.
//   - Transactions are prepared, never executed.
//   - The default listen address is :8000.
package main
