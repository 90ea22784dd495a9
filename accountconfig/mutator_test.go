// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package accountconfig_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hashicorp/terraform-aws-account-config-lambda/accountconfig"
	"github.com/hashicorp/terraform-aws-account-config-lambda/structs"
)

const delegatedYAML = `dev:
  account-name: Dev
  email: dev@example.com
  ou: Dev
  vpc:
    - name: Dev
      cidr: 10.0.0.0/16
test:
  account-name: Test
  email: test@example.com
  ou: Test
`

// generic decodes content into plain Go values so that documents can be compared.
func generic(t *testing.T, content []byte) map[string]interface{} {
	t.Helper()
	var v map[string]interface{}
	require.NoError(t, yaml.Unmarshal(content, &v))
	return v
}

func TestMarkDeleted(t *testing.T) {
	t.Run("partition of a root document", func(t *testing.T) {
		for name, c := range map[string]struct {
			codec accountconfig.Codec
			input string
		}{
			"json": {accountconfig.JSONCodec{}, rootJSON},
			"yaml": {accountconfig.YAMLCodec{}, rootYAML},
		} {
			t.Run(name, func(t *testing.T) {
				doc := decode(t, c.codec, c.input)
				before, err := c.codec.Encode(doc)
				require.NoError(t, err)

				mandatory, err := doc.Partition(structs.Mandatory)
				require.NoError(t, err)
				key, ok := accountconfig.MarkDeleted(mandatory, "mgmt@example.com")
				require.True(t, ok)
				require.Equal(t, "management", key)

				after, err := c.codec.Encode(doc)
				require.NoError(t, err)

				want := generic(t, before)
				want["mandatory-account-configs"].(map[string]interface{})["management"].(map[string]interface{})["deleted"] = true
				require.Empty(t, cmp.Diff(want, generic(t, after)))

				e, ok := mandatory.Find("mgmt@example.com")
				require.True(t, ok)
				require.True(t, e.Deleted())
			})
		}
	})

	t.Run("existing flag is flipped in place", func(t *testing.T) {
		doc := decode(t, accountconfig.YAMLCodec{}, rootYAML)
		mandatory, err := doc.Partition(structs.Mandatory)
		require.NoError(t, err)

		key, ok := accountconfig.MarkDeleted(mandatory, "security@example.com")
		require.True(t, ok)
		require.Equal(t, "security", key)

		out, err := accountconfig.YAMLCodec{}.Encode(doc)
		require.NoError(t, err)
		require.Contains(t, string(out), "    deleted: true\n")
		require.NotContains(t, string(out), "deleted: false")
	})

	t.Run("delegated file", func(t *testing.T) {
		codec := accountconfig.YAMLCodec{}
		doc := decode(t, codec, delegatedYAML)

		key, ok := accountconfig.MarkDeleted(doc.Accounts(), "dev@example.com")
		require.True(t, ok)
		require.Equal(t, "dev", key)

		out, err := codec.Encode(doc)
		require.NoError(t, err)
		got := decode(t, codec, string(out))

		var keys []string
		for _, e := range got.Accounts().Entries() {
			keys = append(keys, e.Key)
		}
		require.Equal(t, []string{"dev", "test"}, keys)

		want := generic(t, []byte(delegatedYAML))
		want["dev"].(map[string]interface{})["deleted"] = true
		require.Empty(t, cmp.Diff(want, generic(t, out)))
	})

	t.Run("not found", func(t *testing.T) {
		codec := accountconfig.YAMLCodec{}
		doc := decode(t, codec, delegatedYAML)

		_, ok := accountconfig.MarkDeleted(doc.Accounts(), "prod@example.com")
		require.False(t, ok)

		out, err := codec.Encode(doc)
		require.NoError(t, err)
		require.Empty(t, cmp.Diff(generic(t, []byte(delegatedYAML)), generic(t, out)))
	})

	t.Run("empty partition", func(t *testing.T) {
		doc := decode(t, accountconfig.YAMLCodec{}, "mandatory-account-configs: {}\n")
		workload, err := doc.Partition(structs.Workload)
		require.NoError(t, err)
		_, ok := accountconfig.MarkDeleted(workload, "a@x.com")
		require.False(t, ok)
	})
}

func TestMarkDeletedIsIdempotent(t *testing.T) {
	for name, codec := range map[string]accountconfig.Codec{
		"json": accountconfig.JSONCodec{},
		"yaml": accountconfig.YAMLCodec{},
	} {
		t.Run(name, func(t *testing.T) {
			input := rootYAML
			if codec.Format() == accountconfig.FormatJSON {
				input = rootJSON
			}

			doc := decode(t, codec, input)
			workload, err := doc.Partition(structs.Workload)
			require.NoError(t, err)
			_, ok := accountconfig.MarkDeleted(workload, "dev@example.com")
			require.True(t, ok)
			first, err := codec.Encode(doc)
			require.NoError(t, err)

			doc = decode(t, codec, string(first))
			workload, err = doc.Partition(structs.Workload)
			require.NoError(t, err)
			_, ok = accountconfig.MarkDeleted(workload, "dev@example.com")
			require.True(t, ok)
			second, err := codec.Encode(doc)
			require.NoError(t, err)

			require.Equal(t, string(first), string(second))
		})
	}
}
