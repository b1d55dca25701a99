// Command obs aggregates Binance and Bitstamp order book depth for one
// currency pair and serves the result as a BookSummary gRPC stream.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
