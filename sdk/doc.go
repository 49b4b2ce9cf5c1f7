// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package sdk bootstraps a service process.
//
// A [ServiceContext] owns the process-wide state: the application phase,
// the metrics registry, the root logger and the set of optional
// capabilities resolved from settings. Services register their HTTP routes,
// gRPC services, timers and schedules on it and then hand control to
// [ServiceContext.StartApplication], which starts every subsystem, blocks
// until shutdown is requested and tears everything down in reverse order.
//
// A minimal service:
//
//	settings, err := sdk.LoadSettings(os.Args[1:])
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	svc, err := sdk.New(ctx, settings)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	svc.ConfigureHTTPServer(func(b *sdk.HTTPServerBuilder) {
//		b.RegisterGet("/hello", hello)
//	})
//
//	if err = svc.StartApplication(ctx); err != nil {
//		log.Fatal(err)
//	}
package sdk
