package cli

import (
	"errors"
	"flag"
	"os"
	"strings"

	"s3transport/internal/config"
	"s3transport/internal/objectid"
)

func parsePutArgs(args []string) (putOptions, error) {
	putFS := flag.NewFlagSet("put", flag.ContinueOnError)
	putFS.SetOutput(os.Stderr)

	var opts putOptions
	putFS.StringVar(&opts.ID, "id", "", "object id (defaults to the BLAKE2b-256 digest of the payload)")

	if err := putFS.Parse(args); err != nil {
		return putOptions{}, err
	}
	rest := putFS.Args()
	if len(rest) != 1 {
		return putOptions{}, errors.New("usage: s3transport put [-id id] <file>")
	}
	if opts.ID != "" {
		if err := objectid.Validate(opts.ID); err != nil {
			return putOptions{}, err
		}
	}
	opts.Path = rest[0]
	return opts, nil
}

func parseGetArgs(args []string) (getOptions, error) {
	getFS := flag.NewFlagSet("get", flag.ContinueOnError)
	getFS.SetOutput(os.Stderr)

	var opts getOptions
	getFS.StringVar(&opts.Output, "o", "", "write the payload to this file instead of stdout")

	if err := getFS.Parse(args); err != nil {
		return getOptions{}, err
	}
	rest := getFS.Args()
	if len(rest) != 1 {
		return getOptions{}, errors.New("usage: s3transport get [-o file] <id>")
	}
	if err := objectid.Validate(rest[0]); err != nil {
		return getOptions{}, err
	}
	opts.ID = rest[0]
	return opts, nil
}

func parseHasArgs(args []string) (hasOptions, error) {
	hasFS := flag.NewFlagSet("has", flag.ContinueOnError)
	hasFS.SetOutput(os.Stderr)

	var opts hasOptions
	hasFS.BoolVar(&opts.Strict, "strict", false, "fail on backend errors instead of reporting false")

	if err := hasFS.Parse(args); err != nil {
		return hasOptions{}, err
	}
	opts.IDs = hasFS.Args()
	if len(opts.IDs) == 0 {
		return hasOptions{}, errors.New("usage: s3transport has [-strict] <id>...")
	}
	return opts, nil
}

func parseCopyArgs(args []string) (copyOptions, error) {
	copyFS := flag.NewFlagSet("copy", flag.ContinueOnError)
	copyFS.SetOutput(os.Stderr)

	var opts copyOptions
	copyFS.StringVar(&opts.FromBucket, "from-bucket", "", "bucket to read objects from")

	if err := copyFS.Parse(args); err != nil {
		return copyOptions{}, err
	}
	opts.IDs = copyFS.Args()
	opts.FromBucket = strings.TrimSpace(opts.FromBucket)
	if opts.FromBucket == "" || len(opts.IDs) == 0 {
		return copyOptions{}, errors.New("usage: s3transport copy -from-bucket name <id>...")
	}
	if err := config.ValidateBucketName(opts.FromBucket); err != nil {
		return copyOptions{}, err
	}
	for _, id := range opts.IDs {
		if err := objectid.Validate(id); err != nil {
			return copyOptions{}, err
		}
	}
	return opts, nil
}

func parseBucketUseArgs(args []string) (bucketUseOptions, error) {
	useFS := flag.NewFlagSet("buckets use", flag.ContinueOnError)
	useFS.SetOutput(os.Stderr)

	var opts bucketUseOptions
	useFS.BoolVar(&opts.Create, "create", false, "create the bucket when it does not exist")

	if err := useFS.Parse(args); err != nil {
		return bucketUseOptions{}, err
	}
	rest := useFS.Args()
	if len(rest) != 1 {
		return bucketUseOptions{}, errors.New("usage: s3transport buckets use [-create] <name>")
	}
	if err := config.ValidateBucketName(rest[0]); err != nil {
		return bucketUseOptions{}, err
	}
	opts.Name = rest[0]
	return opts, nil
}
