package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"bookagg/rpc/bookpb"
)

var clientCmd = &cobra.Command{
	Use:   "client <#messages> [port]",
	Short: "Dial the BookSummary server and print the given number of summaries",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runClient,
}

func init() {
	rootCmd.AddCommand(clientCmd)
}

func runClient(cmd *cobra.Command, args []string) error {
	count, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid message count %q: %w", args[0], err)
	}

	port := "50000"
	if len(args) == 2 {
		port = args[1]
	}
	target := fmt.Sprintf("[::1]:%s", port)

	conn, err := grpc.Dial(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dial %s: %w", target, err)
	}
	defer conn.Close()

	client := bookpb.NewBookSummaryServiceClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	stream, err := client.BookSummary(ctx, &bookpb.Empty{})
	if err != nil {
		return fmt.Errorf("open BookSummary stream: %w", err)
	}

	for i := 0; i < count; i++ {
		summary, err := stream.Recv()
		if err == io.EOF {
			fmt.Println("stream closed by server")
			return nil
		}
		if err != nil {
			return fmt.Errorf("receive summary: %w", err)
		}
		printSummary(i, summary)
	}
	return nil
}

func printSummary(i int, s *bookpb.Summary) {
	fmt.Printf("[%d] spread=%.8f bids=%d asks=%d\n", i, s.GetSpread(), len(s.GetBids()), len(s.GetAsks()))
	for _, lvl := range s.GetBids() {
		fmt.Printf("    bid %-10s %.8f @ %.8f\n", lvl.GetExchange(), lvl.GetPrice(), lvl.GetAmount())
	}
	for _, lvl := range s.GetAsks() {
		fmt.Printf("    ask %-10s %.8f @ %.8f\n", lvl.GetExchange(), lvl.GetPrice(), lvl.GetAmount())
	}
}
