/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package main

import (
	"context"
	"os"

	cmdutil "github.com/microsoft/dsadapter/internal/commands"
	"github.com/microsoft/dsadapter/internal/dsadapter/commands"
	"github.com/microsoft/dsadapter/pkg/logger"
	"github.com/microsoft/dsadapter/pkg/resiliency"
)

const (
	errCommandError = 1
	errPanic        = 3
)

func main() {
	log := logger.New("dsadapter")

	defer func() {
		panicErr := resiliency.MakePanicError(recover(), log.Logger)
		if panicErr != nil {
			_, _ = os.Stderr.Write(cmdutil.WithNewline([]byte(panicErr.Error())))
			log.Flush()
			os.Exit(errPanic)
		}
	}()

	ctx := context.Background()

	root := commands.NewRootCmd(log)
	if err := root.ExecuteContext(ctx); err != nil {
		cmdutil.ErrorExit(log, err, errCommandError)
	} else {
		log.Flush()
	}
}
