package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/richardwooding/feed-loader/cmd"
	"github.com/richardwooding/feed-loader/model"
	"github.com/richardwooding/feed-loader/version"
)

type CLI struct {
	model.Globals

	Load cmd.LoadCmd `cmd:"" help:"Load a feed and print its items."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := CLI{}
	kctx := kong.Parse(&cli,
		kong.Name("feed-loader"),
		kong.Description("Load a remote JSON feed of items."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version.Get().String(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	err := kctx.Run(&cli.Globals)
	kctx.FatalIfErrorf(err)
}
