package commands

import "errors"

var errNotConnected = errors.New("wallet not connected (run `socialfi wallet connect`)")
