package main

import "context"

// purgeTokens drops revocation records whose tokens can no longer decode.
func (cli *commandLine) purgeTokens() error {
	n, err := cli.authSvc.PurgeExpired(context.Background())
	if err != nil {
		return err
	}
	logger.Printf("%d expired token revocation(s) deleted\n", n)
	return nil
}
