// Package github provides a client for the parts of the GitHub API an
// analysis needs.
//
// # Usage
//
//	client := github.NewClient(token)
//	info, err := client.Repository(ctx, "expressjs", "express")
//	tree, err := client.Tree(ctx, "expressjs", "express", info.DefaultBranch)
//	files, err := client.Contents(ctx, "expressjs", "express", info.DefaultBranch, paths)
//
// # Authentication
//
// A token is optional. Without one the REST API allows 60 requests per hour
// and [Client.Contents] fetches each file with its own request. With a token
// the limit is 5000 per hour and contents are fetched through a single
// GraphQL query per batch of files.
//
// # URLs
//
// [ParseRepoURL] accepts owner/repo, github.com/owner/repo and full https
// URLs, with or without www. and a .git suffix.
package github
