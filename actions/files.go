package actions

import (
	"context"
	"fmt"

	"github.com/relloyd/lakepipe/file"
	"github.com/relloyd/lakepipe/helper"
)

type FileConfig struct {
	Source string `errorTxt:"source location" mandatory:"yes"`
	Append bool   // used by put, local files only
}

// RunFileGet writes the content at Source to the output.
func RunFileGet(ctx context.Context, env *Env, cfg FileConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	b, err := env.Files.Get(ctx, cfg.Source)
	if err != nil {
		return err
	}
	_, err = env.Out.Write(b)
	return err
}

// RunFilePut writes the input to Source.
func RunFilePut(ctx context.Context, env *Env, cfg FileConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	b, err := env.read(ctx, "")
	if err != nil {
		return err
	}
	mode := file.Overwrite
	if cfg.Append {
		mode = file.Append
	}
	return env.Files.Put(ctx, cfg.Source, b, mode)
}

type FileTransferConfig struct {
	Source string `errorTxt:"source location" mandatory:"yes"`
	Target string `errorTxt:"target location" mandatory:"yes"`
}

// RunFileCopy copies Source to Target.
func RunFileCopy(ctx context.Context, env *Env, cfg FileTransferConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	return env.Files.Copy(ctx, cfg.Source, cfg.Target)
}

// RunFileMove moves Source to Target.
func RunFileMove(ctx context.Context, env *Env, cfg FileTransferConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	return env.Files.Move(ctx, cfg.Source, cfg.Target)
}

// RunFileDelete removes Source.
func RunFileDelete(ctx context.Context, env *Env, cfg FileConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	return env.Files.Delete(ctx, cfg.Source)
}

// RunFileList prints every object or file under Source.
func RunFileList(ctx context.Context, env *Env, cfg FileConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	uris, err := env.Files.List(ctx, cfg.Source)
	if err != nil {
		return err
	}
	for _, u := range uris {
		if _, err = fmt.Fprintln(env.Out, u); err != nil {
			return err
		}
	}
	return nil
}
