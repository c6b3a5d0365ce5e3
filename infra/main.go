package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/GregMSThompson/budget-report/infra/cloudrun"
	"github.com/GregMSThompson/budget-report/infra/docker"
	"github.com/GregMSThompson/budget-report/infra/firestore"
	"github.com/GregMSThompson/budget-report/infra/kms"
	"github.com/GregMSThompson/budget-report/infra/provider"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// enable firestore and create a database for the session store
		err = firestore.SetupFirestore(ctx, prov)
		if err != nil {
			return err
		}

		// key used to seal upstream tokens at rest
		kmsSvc, err := kms.SetupKMS(ctx, prov)
		if err != nil {
			return err
		}
		keyName, err := kms.CreateKey(ctx, prov, "budget-report", "session-tokens")
		if err != nil {
			return err
		}

		// create docker repo
		repo, err := docker.CreateCloudrunRepo(ctx, prov)
		if err != nil {
			return err
		}

		svc, err := cloudrun.SetupCloudRun(ctx, prov, keyName, repo, kmsSvc)
		if err != nil {
			return err
		}

		ctx.Export("url", svc.Statuses.Index(pulumi.Int(0)).Url())
		return nil
	})
}
