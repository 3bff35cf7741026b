// Package rackspace provides the Rackspace Cloud API client and resource
// collectors.
//
// This package authenticates against the Rackspace identity service, reads
// the per-region endpoints from the service catalog and turns the resource
// APIs into numeric metrics. It handles:
//   - API-key authentication for US and UK accounts
//   - FirstGen and NextGen servers, joined with their flavors
//   - NextGen absolute account limits
//   - Cloud Files containers, Cloud Databases instances and Cloud Load Balancers
//   - Request timeouts and optional request pacing
//
// The main types are:
//   - Client: JSON HTTP client for the Rackspace APIs
//   - Authenticator: exchanges credentials for an AuthSession
//   - ResourceCollector: one implementation per Family
//   - Monitor: runs every enabled family in every region, implements
//     provider.CloudProvider
//
// Records with an unknown status or a missing field are skipped and listed in
// Collection.Skipped. A response without its list is a *DecodeError, which
// fails that family and region only.
//
// Example usage:
//
//	monitor := rackspace.NewMonitor(rackspace.Options{
//		Credentials: rackspace.Credentials{Username: "monitoring", APIKey: key},
//		IdentityURL: rackspace.AccountBaseUS.IdentityURL(),
//	}, log)
//
//	summary, err := monitor.Collect(ctx, sink.NewWriter(os.Stdout))
//	if err != nil {
//		log.Error("Collection failed", "error", err)
//		return
//	}
//
//	fmt.Printf("Reported %d metrics, %d failures\n",
//		summary.MetricCount, len(summary.Failures))
package rackspace
