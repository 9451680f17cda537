// Command jsondict inspects and edits a document stored by package jsondict.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"

	"github.com/andreyvit/jsondict"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "jsondict: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "jsondict",
		Usage: "read and modify a JSON document mirrored to a key-value store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "store",
				Value:   "bolt",
				Usage:   "store backend: bolt, leveldb or redis",
				EnvVars: []string{"JSONDICT_STORE"},
			},
			&cli.StringFlag{
				Name:     "db",
				Usage:    "database path (bolt, leveldb) or address (redis)",
				EnvVars:  []string{"JSONDICT_DB"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "key",
				Value:   "doc",
				Usage:   "document key",
				EnvVars: []string{"JSONDICT_KEY"},
			},
			&cli.StringFlag{
				Name:    "encoding",
				Value:   "json",
				Usage:   "stored encoding: json or msgpack",
				EnvVars: []string{"JSONDICT_ENCODING"},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log every load and commit",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "print the value at PATH",
				ArgsUsage: "[PATH]",
				Action: withDoc(func(c *cli.Context, doc *jsondict.Doc) error {
					e, err := doc.Lookup(c.Args().First())
					if err != nil {
						return err
					}
					return printValue(c.App.Writer, e.Detach())
				}),
			},
			{
				Name:  "dump",
				Usage: "print the whole document",
				Action: withDoc(func(c *cli.Context, doc *jsondict.Doc) error {
					v, err := doc.Snapshot()
					if err != nil {
						return err
					}
					return printValue(c.App.Writer, v)
				}),
			},
			{
				Name:      "set",
				Usage:     "store JSON at PATH",
				ArgsUsage: "PATH JSON",
				Action: withDoc(func(c *cli.Context, doc *jsondict.Doc) error {
					v, err := jsonArg(c, 1)
					if err != nil {
						return err
					}
					parent, last, err := resolveParent(doc, c.Args().First())
					if err != nil {
						return err
					}
					switch p := parent.(type) {
					case *jsondict.Map:
						return p.Set(last.Key, v)
					case *jsondict.List:
						return p.Set(last.Index, v)
					default:
						return fmt.Errorf("cannot set inside %v", parent.Kind())
					}
				}),
			},
			{
				Name:      "del",
				Usage:     "remove the value at PATH",
				ArgsUsage: "PATH",
				Action: withDoc(func(c *cli.Context, doc *jsondict.Doc) error {
					parent, last, err := resolveParent(doc, c.Args().First())
					if err != nil {
						return err
					}
					switch p := parent.(type) {
					case *jsondict.Map:
						_, err = p.Pop(last.Key)
					case *jsondict.List:
						_, err = p.Pop(last.Index)
					default:
						err = fmt.Errorf("cannot delete inside %v", parent.Kind())
					}
					return err
				}),
			},
			{
				Name:      "append",
				Usage:     "append JSON to the array at PATH",
				ArgsUsage: "PATH JSON",
				Action: withDoc(func(c *cli.Context, doc *jsondict.Doc) error {
					v, err := jsonArg(c, 1)
					if err != nil {
						return err
					}
					e, err := doc.Lookup(c.Args().First())
					if err != nil {
						return err
					}
					l, ok := e.(*jsondict.List)
					if !ok {
						return fmt.Errorf("%s is %v, wanted array", c.Args().First(), e.Kind())
					}
					return l.Append(v)
				}),
			},
		},
	}
}

func withDoc(f func(c *cli.Context, doc *jsondict.Doc) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		store, closer, err := openStore(c)
		if err != nil {
			return err
		}
		defer closer.Close()

		enc, err := jsondict.ParseEncoding(c.String("encoding"))
		if err != nil {
			return err
		}
		opt := jsondict.Options{
			Encoding: enc,
			Verbose:  c.Bool("verbose"),
			Logger:   slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: slog.LevelDebug})),
		}
		return f(c, jsondict.Open(store, c.String("key"), opt))
	}
}

func openStore(c *cli.Context) (jsondict.Store, io.Closer, error) {
	path := c.String("db")
	switch c.String("store") {
	case "bolt":
		s, err := jsondict.OpenBolt(path, jsondict.BoltOptions{})
		return s, s, err
	case "leveldb":
		s, err := jsondict.OpenLevel(path, jsondict.LevelOptions{Sync: true})
		return s, s, err
	case "redis":
		s := jsondict.NewRedisStore(redis.NewClient(&redis.Options{Addr: path}), jsondict.RedisOptions{Context: c.Context})
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", c.String("store"))
	}
}

func resolveParent(doc *jsondict.Doc, path string) (jsondict.Elem, jsondict.PathSeg, error) {
	segs, err := jsondict.ParsePath(path)
	if err != nil {
		return nil, jsondict.PathSeg{}, err
	}
	if len(segs) == 0 {
		return nil, jsondict.PathSeg{}, errors.New("path must not be empty")
	}
	root, err := doc.Root()
	if err != nil {
		return nil, jsondict.PathSeg{}, err
	}
	parent, err := jsondict.Resolve(root, segs[:len(segs)-1])
	if err != nil {
		return nil, jsondict.PathSeg{}, err
	}
	last := segs[len(segs)-1]
	if _, isList := parent.(*jsondict.List); isList != last.IsIndex {
		return nil, jsondict.PathSeg{}, fmt.Errorf("%s: %v cannot be addressed by %v", path, parent.Kind(), last)
	}
	return parent, last, nil
}

func jsonArg(c *cli.Context, i int) (jsondict.Value, error) {
	raw := c.Args().Get(i)
	if raw == "" {
		return jsondict.Value{}, fmt.Errorf("missing JSON argument")
	}
	return jsondict.JSON.Decode([]byte(raw))
}

func printValue(w io.Writer, v jsondict.Value) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(v.String()), "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}
