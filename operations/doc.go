// Package operations maps named engine operations onto engine API calls.
//
// Every operation validates its parameters, shapes a path, query and body
// and hands them to an Invoker. Operations hold no state and may run
// concurrently. A Connector dispatches invocations by name through a
// Registry:
//
//	conn := operations.NewConnector(httpclient.New())
//	out, err := conn.Execute(ctx, operations.Invocation{
//		Operation: "list_containers",
//		Config:    cfg,
//		Params:    operations.Params{"all": true},
//	})
package operations
