package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"

	"s3transport/internal/config"
	"s3transport/internal/logging"
	"s3transport/internal/objectid"
	"s3transport/internal/state"
	"s3transport/internal/transport"
)

func Run(args []string) error {
	fs := flag.NewFlagSet("s3transport", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	configPath, err := state.ConfigPath()
	if err != nil {
		return err
	}
	fs.StringVar(&configPath, "config", configPath, "path to config file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return usageError()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	switch rest[0] {
	case "put":
		opts, err := parsePutArgs(rest[1:])
		if err != nil {
			return err
		}
		return putObject(ctx, cfg, opts)
	case "get":
		opts, err := parseGetArgs(rest[1:])
		if err != nil {
			return err
		}
		return getObject(ctx, cfg, opts)
	case "has":
		opts, err := parseHasArgs(rest[1:])
		if err != nil {
			return err
		}
		return hasObjects(ctx, cfg, opts)
	case "copy":
		opts, err := parseCopyArgs(rest[1:])
		if err != nil {
			return err
		}
		return copyObjects(ctx, cfg, opts)
	case "buckets":
		if len(rest) < 2 {
			return errors.New("missing buckets subcommand (list|use)")
		}
		switch rest[1] {
		case "list":
			if len(rest) != 2 {
				return errors.New("usage: s3transport buckets list")
			}
			return listBuckets(ctx, cfg)
		case "use":
			opts, err := parseBucketUseArgs(rest[2:])
			if err != nil {
				return err
			}
			return useBucket(ctx, cfg, opts)
		default:
			return errors.New("unknown buckets subcommand")
		}
	default:
		return usageError()
	}
}

func usageError() error {
	return errors.New("usage: s3transport [-config path] put [-id id] <file> | get [-o file] <id> | has [-strict] <id>... | copy -from-bucket name <id>... | buckets list|use [-create] <name>")
}

func putObject(ctx context.Context, cfg *config.Config, opts putOptions) error {
	payload, err := os.ReadFile(opts.Path)
	if err != nil {
		return fmt.Errorf("read file %s: %w", opts.Path, err)
	}
	id := opts.ID
	if id == "" {
		id = objectid.FromPayload(payload)
	}

	tr, err := transportFromConfig(ctx, cfg)
	if err != nil {
		return err
	}
	tr.BeginWrite()
	defer tr.EndWrite()
	if err := tr.SaveObject(ctx, id, payload); err != nil {
		return fmt.Errorf("save object %s: %w", id, err)
	}

	fmt.Printf("saved %s bytes=%d\n", id, len(payload))
	return nil
}

func getObject(ctx context.Context, cfg *config.Config, opts getOptions) error {
	tr, err := transportFromConfig(ctx, cfg)
	if err != nil {
		return err
	}
	payload, err := tr.GetObject(ctx, opts.ID)
	if err != nil {
		return fmt.Errorf("get object %s: %w", opts.ID, err)
	}

	if opts.Output == "" {
		_, err := os.Stdout.Write(payload)
		return err
	}
	if err := os.WriteFile(opts.Output, payload, 0o644); err != nil {
		return fmt.Errorf("write file %s: %w", opts.Output, err)
	}
	fmt.Printf("wrote %s bytes=%d\n", opts.Output, len(payload))
	return nil
}

func hasObjects(ctx context.Context, cfg *config.Config, opts hasOptions) error {
	tr, err := transportFromConfig(ctx, cfg)
	if err != nil {
		return err
	}

	var found map[string]bool
	if opts.Strict {
		found, err = tr.CheckObjects(ctx, opts.IDs)
		if err != nil {
			return fmt.Errorf("check objects: %w", err)
		}
	} else {
		found = tr.HasObjects(ctx, opts.IDs)
	}

	for _, id := range opts.IDs {
		fmt.Printf("%s %t\n", id, found[id])
	}
	return nil
}

func copyObjects(ctx context.Context, cfg *config.Config, opts copyOptions) error {
	target, err := transportFromConfig(ctx, cfg)
	if err != nil {
		return err
	}

	sourceCfg := *cfg
	sourceCfg.S3.Bucket = opts.FromBucket
	sourceCfg.S3.CreateBucket = false
	source, err := transportFromConfig(ctx, &sourceCfg)
	if err != nil {
		return fmt.Errorf("open source bucket %s: %w", opts.FromBucket, err)
	}

	target.BeginWrite()
	defer target.EndWrite()
	for _, id := range opts.IDs {
		if err := target.SaveObjectFromTransport(ctx, id, source); err != nil {
			return fmt.Errorf("copy object %s: %w", id, err)
		}
	}

	fmt.Printf("copied=%d from=%s to=%s\n", target.SentObjectCount(), opts.FromBucket, target.Bucket())
	return nil
}

func listBuckets(ctx context.Context, cfg *config.Config) error {
	tr, err := transportFromConfig(ctx, cfg)
	if err != nil {
		return err
	}
	names, err := tr.Connection().Buckets(ctx)
	if err != nil {
		return err
	}
	active := tr.Bucket()
	for _, name := range names {
		marker := " "
		if name == active {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, name)
	}
	return nil
}

// useBucket checks (or with -create, creates) a bucket and selects it for this
// invocation only. Later commands read s3.bucket from the config file.
func useBucket(ctx context.Context, cfg *config.Config, opts bucketUseOptions) error {
	tr, err := transportFromConfig(ctx, cfg)
	if err != nil {
		return err
	}
	if !opts.Create {
		names, err := tr.Connection().Buckets(ctx)
		if err != nil {
			return err
		}
		if !slices.Contains(names, opts.Name) {
			return fmt.Errorf("bucket %s does not exist (pass -create to create it)", opts.Name)
		}
	}
	if err := tr.Connection().SetBucket(ctx, opts.Name, opts.Create); err != nil {
		return fmt.Errorf("use bucket %s: %w", opts.Name, err)
	}
	fmt.Printf("bucket ready: %s (set s3.bucket in the config to keep using it)\n", tr.Bucket())
	return nil
}

func transportFromConfig(ctx context.Context, cfg *config.Config) (*transport.ObjectTransport, error) {
	objectsDir, err := state.ObjectStoreDir()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	tr, err := transport.Open(ctx, cfg, objectsDir, logger)
	if err != nil {
		return nil, fmt.Errorf("open transport: %w", err)
	}
	return tr, nil
}
